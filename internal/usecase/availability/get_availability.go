package availability

import (
	"context"

	"github.com/harmoniawellness/wellness-scheduler/internal/cache"
	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/domain/schedule"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/timeutil"
	"github.com/harmoniawellness/wellness-scheduler/internal/timezone"
)

// GridStepMin is the booking-UI grid: candidate starts every 30 minutes
// and occupancy tracked as 30-minute marks.
const GridStepMin = 30

const defaultDurationMin = 60

type AvailabilityInput struct {
	ProviderID uint
	Date       string
	ServiceID  uint
}

// AvailabilityResult distinguishes "provider closed that day"
// (Available=false) from an open day where every slot happens to be taken.
type AvailabilityResult struct {
	Available   bool                `json:"available"`
	Open        string              `json:"open,omitempty"`
	Close       string              `json:"close,omitempty"`
	DurationMin int                 `json:"duration_min"`
	Slots       []schedule.TimeSlot `json:"slots"`
}

type GetAvailability struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
}

func NewGetAvailability(repo domain.Repository, c *cache.AvailabilityCache) *GetAvailability {
	return &GetAvailability{repo: repo, cache: c}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityResult, error) {

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
	if err != nil || !wh.Active || wh.OpenTime == "" || wh.CloseTime == "" {
		// Closed day, not an error.
		return &AvailabilityResult{Available: false, Slots: []schedule.TimeSlot{}}, nil
	}

	duration := defaultDurationMin
	if in.ServiceID != 0 {
		if d, err := uc.repo.GetServiceDuration(ctx, in.ProviderID, in.ServiceID); err != nil {
			return nil, err
		} else if d > 0 {
			duration = d
		}
	}

	var cached AvailabilityResult
	if uc.cache.Get(ctx, in.ProviderID, in.Date, duration, &cached) {
		return &cached, nil
	}

	booked, err := uc.repo.ListBookedSlots(ctx, in.ProviderID, in.Date)
	if err != nil {
		return nil, err
	}

	// Expand each booked interval into 30-minute-aligned occupied marks.
	occupied := map[int]bool{}
	for _, slot := range booked {
		start := timeutil.TimeToMinutes(slot.StartTime)
		end := timeutil.TimeToMinutes(slot.EndTime)
		for m := start - start%GridStepMin; m < end; m += GridStepMin {
			occupied[m] = true
		}
	}

	open := timeutil.TimeToMinutes(wh.OpenTime)
	close := timeutil.TimeToMinutes(wh.CloseTime)

	slots := []schedule.TimeSlot{}
	for start := open; start+duration <= close; start += GridStepMin {
		available := true
		for m := start; m < start+duration; m += GridStepMin {
			if occupied[m] {
				available = false
				break
			}
		}

		slots = append(slots, schedule.TimeSlot{
			Start:     timeutil.MinutesToTime(start),
			End:       timeutil.MinutesToTime(start + duration),
			Available: available,
		})
	}

	result := &AvailabilityResult{
		Available:   true,
		Open:        wh.OpenTime,
		Close:       wh.CloseTime,
		DurationMin: duration,
		Slots:       slots,
	}

	uc.cache.Set(ctx, in.ProviderID, in.Date, duration, result)

	return result, nil
}
