package timeutil

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// TimeToMinutes converts an HH:MM 24-hour clock string to minutes since
// midnight. Returns -1 for input that does not parse; callers validate
// upstream, the sentinel only keeps a bad string from silently becoming
// midnight.
func TimeToMinutes(clock string) int {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// MinutesToTime renders minutes since midnight as a zero-padded HH:MM
// string. Minutes must be in [0, 1440).
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseTimeString combines a calendar date with an HH:MM clock time into a
// single timestamp in the date's location. No timezone conversion is
// performed; all scheduling arithmetic is naive wall-clock.
func ParseTimeString(date time.Time, clock string) time.Time {
	t, _ := time.Parse(ClockLayout, clock)
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	)
}

// ParseDate parses a YYYY-MM-DD calendar date in the given location.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, dateStr, loc)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// IsValidClock reports whether s is a well-formed HH:MM 24-hour time.
func IsValidClock(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil && len(s) == 5
}
