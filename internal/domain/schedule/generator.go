package schedule

import (
	"github.com/harmoniawellness/wellness-scheduler/internal/timeutil"
)

const (
	DefaultSlotDurationMin = 60
	DefaultBufferMin       = 15
)

// GenerateInput describes one provider day for the slot generator.
// Appointments and Blocked are minute intervals on the same day; NowMin is
// minutes since midnight when the requested day is today, or NoPastFilter
// for a future day.
type GenerateInput struct {
	OpenTime  string
	CloseTime string

	SlotDurationMin int
	BufferMin       int

	Appointments []Interval
	Blocked      []Interval

	NowMin int
}

// NoPastFilter disables the past-slot check for days that are not today.
const NoPastFilter = -1

// Generate walks the open window in fixed SlotDurationMin steps and emits
// every candidate slot, flagged available or not. Unavailable slots are kept
// so callers can render a full day grid with taken slots greyed out.
//
// A slot is unavailable when it overlaps an appointment padded with the
// buffer, overlaps a blocked range, or starts in the past.
func Generate(in GenerateInput) DayAvailability {
	if in.SlotDurationMin <= 0 {
		in.SlotDurationMin = DefaultSlotDurationMin
	}
	if in.BufferMin < 0 {
		in.BufferMin = DefaultBufferMin
	}

	open := timeutil.TimeToMinutes(in.OpenTime)
	close := timeutil.TimeToMinutes(in.CloseTime)
	if open < 0 || close < 0 || open >= close {
		return DayAvailability{Open: false, Slots: []TimeSlot{}}
	}

	slots := []TimeSlot{}

	for start := open; start+in.SlotDurationMin <= close; start += in.SlotDurationMin {
		end := start + in.SlotDurationMin

		available := true

		for _, ap := range in.Appointments {
			if conflicts(start, end, ap.Start, ap.End+in.BufferMin) {
				available = false
				break
			}
		}

		if available {
			for _, b := range in.Blocked {
				if conflicts(start, end, b.Start, b.End) {
					available = false
					break
				}
			}
		}

		if available && in.NowMin >= 0 && start < in.NowMin {
			available = false
		}

		slots = append(slots, TimeSlot{
			Start:     timeutil.MinutesToTime(start),
			End:       timeutil.MinutesToTime(end),
			Available: available,
		})
	}

	return DayAvailability{Open: true, Slots: slots}
}

// conflicts is the half-open interval overlap test, plus an explicit check
// that a slot starting exactly where a blocker starts always counts as a
// conflict.
func conflicts(slotStart, slotEnd, blockStart, blockEnd int) bool {
	if slotStart == blockStart {
		return true
	}
	return slotStart < blockEnd && blockStart < slotEnd
}
