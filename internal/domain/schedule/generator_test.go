package schedule

import (
	"testing"
)

func TestGenerateCoversFullWindow(t *testing.T) {
	out := Generate(GenerateInput{
		OpenTime:        "09:00",
		CloseTime:       "17:00",
		SlotDurationMin: 60,
		NowMin:          NoPastFilter,
	})

	if !out.Open {
		t.Fatal("expected open day")
	}
	if len(out.Slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(out.Slots))
	}
	if out.Slots[0].Start != "09:00" || out.Slots[0].End != "10:00" {
		t.Errorf("first slot = %s-%s", out.Slots[0].Start, out.Slots[0].End)
	}
	if out.Slots[7].Start != "16:00" || out.Slots[7].End != "17:00" {
		t.Errorf("last slot = %s-%s", out.Slots[7].Start, out.Slots[7].End)
	}

	// Contiguous, non overlapping.
	for i := 1; i < len(out.Slots); i++ {
		if out.Slots[i].Start != out.Slots[i-1].End {
			t.Errorf("gap between slot %d and %d", i-1, i)
		}
	}
	for _, s := range out.Slots {
		if !s.Available {
			t.Errorf("slot %s should be available on an empty day", s.Start)
		}
	}
}

func TestGenerateBufferRespected(t *testing.T) {
	// Appointment [10:00, 11:00) with a 15 minute buffer blocks everything
	// up to 11:15. On a 15 minute grid the 11:00 slot must be unavailable
	// and the 11:15 slot free.
	out := Generate(GenerateInput{
		OpenTime:        "09:00",
		CloseTime:       "13:00",
		SlotDurationMin: 15,
		BufferMin:       15,
		Appointments:    []Interval{{Start: 600, End: 660}},
		NowMin:          NoPastFilter,
	})

	byStart := map[string]TimeSlot{}
	for _, s := range out.Slots {
		byStart[s.Start] = s
	}

	if byStart["11:00"].Available {
		t.Error("11:00 should be blocked by the post-appointment buffer")
	}
	if !byStart["11:15"].Available {
		t.Error("11:15 should be free")
	}
	if byStart["10:00"].Available || byStart["10:45"].Available {
		t.Error("slots inside the appointment should be unavailable")
	}
	if !byStart["09:45"].Available {
		t.Error("09:45 ends exactly at the appointment start and should be free")
	}
}

func TestGenerateExactStartCoincidence(t *testing.T) {
	// A blocker starting exactly at a slot start is a conflict even with a
	// zero-length overlap window.
	out := Generate(GenerateInput{
		OpenTime:        "09:00",
		CloseTime:       "12:00",
		SlotDurationMin: 60,
		BufferMin:       0,
		Blocked:         []Interval{{Start: 600, End: 600}},
		NowMin:          NoPastFilter,
	})

	for _, s := range out.Slots {
		if s.Start == "10:00" && s.Available {
			t.Error("slot starting at the blocker start must be unavailable")
		}
	}
}

func TestGenerateBlockedRange(t *testing.T) {
	out := Generate(GenerateInput{
		OpenTime:        "09:00",
		CloseTime:       "15:00",
		SlotDurationMin: 60,
		BufferMin:       0,
		Blocked:         []Interval{{Start: 720, End: 780}}, // 12:00-13:00
		NowMin:          NoPastFilter,
	})

	for _, s := range out.Slots {
		switch s.Start {
		case "12:00":
			if s.Available {
				t.Error("12:00 overlaps the blocked range")
			}
		case "11:00", "13:00":
			if !s.Available {
				t.Errorf("%s should not be touched by the block", s.Start)
			}
		}
	}
}

func TestGeneratePastSlotsFiltered(t *testing.T) {
	out := Generate(GenerateInput{
		OpenTime:        "09:00",
		CloseTime:       "12:00",
		SlotDurationMin: 60,
		NowMin:          630, // 10:30
	})

	byStart := map[string]bool{}
	for _, s := range out.Slots {
		byStart[s.Start] = s.Available
	}

	if byStart["09:00"] || byStart["10:00"] {
		t.Error("slots starting before now must be unavailable")
	}
	if !byStart["11:00"] {
		t.Error("11:00 starts after now and should be available")
	}
}

func TestGenerateClosedWindow(t *testing.T) {
	cases := []GenerateInput{
		{OpenTime: "", CloseTime: ""},
		{OpenTime: "18:00", CloseTime: "09:00"},
		{OpenTime: "10:00", CloseTime: "10:00"},
	}

	for _, in := range cases {
		out := Generate(in)
		if out.Open {
			t.Errorf("window %q-%q should report closed", in.OpenTime, in.CloseTime)
		}
		if len(out.Slots) != 0 {
			t.Errorf("closed day must carry no slots")
		}
	}
}

func TestGenerateFullSequenceIncludesUnavailable(t *testing.T) {
	out := Generate(GenerateInput{
		OpenTime:        "09:00",
		CloseTime:       "12:00",
		SlotDurationMin: 60,
		BufferMin:       0,
		Appointments:    []Interval{{Start: 540, End: 720}},
		NowMin:          NoPastFilter,
	})

	// Every candidate is emitted even when taken.
	if len(out.Slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(out.Slots))
	}
	for _, s := range out.Slots {
		if s.Available {
			t.Errorf("slot %s should be unavailable", s.Start)
		}
	}
}
