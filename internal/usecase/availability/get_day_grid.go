package availability

import (
	"context"
	"time"

	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/domain/schedule"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/timeutil"
	"github.com/harmoniawellness/wellness-scheduler/internal/timezone"
)

type DayGridInput struct {
	ProviderID      uint
	Date            string
	SlotDurationMin int
	BufferMin       int
}

// GetDayGrid builds the provider-facing day planner: the full slot grid with
// booked intervals padded by the preparation buffer and blocked ranges
// marked, past slots included as unavailable when the day is today.
type GetDayGrid struct {
	repo domain.Repository
}

func NewGetDayGrid(repo domain.Repository) *GetDayGrid {
	return &GetDayGrid{repo: repo}
}

func (uc *GetDayGrid) Execute(
	ctx context.Context,
	in DayGridInput,
) (*schedule.DayAvailability, error) {

	provider, err := uc.repo.GetProviderByID(ctx, in.ProviderID)
	if err != nil {
		return nil, httperr.ErrBusiness("provider_not_found")
	}

	loc := timezone.Location(provider.Timezone)
	date, err := timeutil.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	wh, err := uc.repo.GetWorkingHours(ctx, in.ProviderID, int(date.Weekday()))
	if err != nil || !wh.Active {
		return &schedule.DayAvailability{Open: false, Slots: []schedule.TimeSlot{}}, nil
	}

	aps, err := uc.repo.ListAppointmentsForDay(ctx, in.ProviderID, in.Date)
	if err != nil {
		return nil, err
	}

	busy := make([]schedule.Interval, 0, len(aps))
	for i := range aps {
		start := timeutil.TimeToMinutes(aps[i].StartTime)
		if start < 0 {
			continue
		}
		busy = append(busy, schedule.Interval{
			Start: start,
			End:   start + aps[i].DurationMin,
		})
	}

	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)

	ranges, err := uc.repo.ListBlockedRangesForDay(ctx, in.ProviderID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	blocked := make([]schedule.Interval, 0, len(ranges))
	for _, br := range ranges {
		blocked = append(blocked, schedule.Interval{
			Start: clampToDay(br.StartTime, dayStart, dayEnd),
			End:   clampToDayEnd(br.EndTime, dayStart, dayEnd),
		})
	}

	now := timezone.NowIn(provider.Timezone)
	nowMin := schedule.NoPastFilter
	if now.Format("2006-01-02") == in.Date {
		nowMin = now.Hour()*60 + now.Minute()
	}

	grid := schedule.Generate(schedule.GenerateInput{
		OpenTime:        wh.OpenTime,
		CloseTime:       wh.CloseTime,
		SlotDurationMin: in.SlotDurationMin,
		BufferMin:       in.BufferMin,
		Appointments:    busy,
		Blocked:         blocked,
		NowMin:          nowMin,
	})

	return &grid, nil
}

// clampToDay converts a blocked-range bound to minutes since midnight of the
// requested day, clamping ranges that started before it.
func clampToDay(ts, dayStart, dayEnd time.Time) int {
	if ts.Before(dayStart) {
		return 0
	}
	if !ts.Before(dayEnd) {
		return 24 * 60
	}
	return ts.Hour()*60 + ts.Minute()
}

func clampToDayEnd(ts, dayStart, dayEnd time.Time) int {
	if !ts.Before(dayEnd) {
		return 24 * 60
	}
	if ts.Before(dayStart) {
		return 0
	}
	return ts.Hour()*60 + ts.Minute()
}
