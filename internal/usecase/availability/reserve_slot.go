package availability

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/cache"
	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/timeutil"
)

type ReserveSlotInput struct {
	ProviderID    uint
	Date          string
	StartTime     string
	DurationMin   int
	AppointmentID uint
}

// ReserveSlot creates the reservation record that makes a booking
// conflict-free. The point lookup is an early exit; the store's unique and
// exclusion constraints are the actual guarantee under concurrency.
type ReserveSlot struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
}

func NewReserveSlot(repo domain.Repository, c *cache.AvailabilityCache) *ReserveSlot {
	return &ReserveSlot{repo: repo, cache: c}
}

func (uc *ReserveSlot) Execute(
	ctx context.Context,
	in ReserveSlotInput,
) (*models.BookingSlot, error) {

	startMin := timeutil.TimeToMinutes(in.StartTime)
	if startMin < 0 || in.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	end := timeutil.MinutesToTime(startMin + in.DurationMin)

	existing, err := uc.repo.GetBookedSlot(ctx, in.ProviderID, in.Date, in.StartTime)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, httperr.ErrBusiness("slot_conflict")
	}

	slot := &models.BookingSlot{
		ProviderID:    in.ProviderID,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       end,
		Status:        "booked",
		AppointmentID: in.AppointmentID,
	}

	if err := uc.repo.CreateBookingSlot(ctx, slot); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusiness("slot_conflict")
		}
		return nil, err
	}

	uc.cache.Invalidate(ctx, in.ProviderID, in.Date)

	return slot, nil
}
