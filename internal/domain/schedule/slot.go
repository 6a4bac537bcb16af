package schedule

// TimeSlot is one fixed-width candidate interval on a day, HH:MM bounds.
// Derived, never persisted; recomputed per query.
type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// Interval is a busy range in minutes since midnight, half-open [Start, End).
type Interval struct {
	Start int
	End   int
}

// DayAvailability is the generator result for a single provider day.
// Open=false means the provider has no active window that weekday, which is
// distinct from an open day where every slot is taken.
type DayAvailability struct {
	Open  bool       `json:"open"`
	Slots []TimeSlot `json:"slots"`
}
