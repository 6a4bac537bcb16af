package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/payments"
	"github.com/harmoniawellness/wellness-scheduler/internal/timeutil"
	"github.com/harmoniawellness/wellness-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateCheckoutInput struct {
	ProviderSlug string
	UserID       *uint
	UserEmail    string

	ServiceID uint

	Date  string
	Time  string
	Notes string
}

type CreateCheckoutOutput struct {
	Appointment *models.Appointment      `json:"appointment"`
	Checkout    *payments.CheckoutSession `json:"checkout"`
}

// ======================================================
// USE CASE
// ======================================================

// CreateCheckout opens a booking attempt: the appointment is created in
// pending_payment and the caller is redirected to the hosted checkout. The
// slot is only reserved when the payment webhook confirms; the availability
// shown here is advisory.
type CreateCheckout struct {
	repo    domain.Repository
	gateway payments.Gateway
}

func NewCreateCheckout(repo domain.Repository, gateway payments.Gateway) *CreateCheckout {
	return &CreateCheckout{repo: repo, gateway: gateway}
}

func (uc *CreateCheckout) Execute(
	ctx context.Context,
	in CreateCheckoutInput,
) (*CreateCheckoutOutput, error) {

	provider, err := uc.repo.GetProviderBySlug(ctx, in.ProviderSlug)
	if err != nil {
		return nil, httperr.ErrBusiness("provider_not_found")
	}

	if !timeutil.IsValidClock(in.Time) {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	loc := timezone.Location(provider.Timezone)
	date, err := timeutil.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	start := timeutil.ParseTimeString(date, in.Time)

	minAdvance := provider.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := timezone.NowIn(provider.Timezone)
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	service, err := uc.repo.GetService(ctx, provider.ID, in.ServiceID)
	if err != nil || !service.Active {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	duration, err := uc.repo.GetServiceDuration(ctx, provider.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		duration = service.DurationMin
	}

	if err := uc.checkWindow(ctx, provider.ID, date, in.Time, duration); err != nil {
		return nil, err
	}

	// Advisory early exit; the webhook-time reservation is authoritative.
	if existing, err := uc.repo.GetBookedSlot(ctx, provider.ID, in.Date, in.Time); err == nil && existing != nil {
		return nil, httperr.ErrBusiness("slot_conflict")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ap := &models.Appointment{
		ProviderID:       provider.ID,
		UserID:           in.UserID,
		ServiceID:        service.ID,
		ServiceName:      service.Name,
		ServicePrice:     service.Price,
		DurationMin:      duration,
		Date:             in.Date,
		StartTime:        in.Time,
		Status:           string(domain.InitialStatus()),
		PaymentStatus:    string(domain.PaymentPending),
		PaymentReference: uuid.NewString(),
		Notes:            in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	session, err := uc.gateway.CreateCheckout(ctx, payments.CheckoutInput{
		Title:             fmt.Sprintf("%s - %s", provider.Name, service.Name),
		Amount:            service.Price,
		PayerEmail:        in.UserEmail,
		ExternalReference: ap.PaymentReference,
	})
	if err != nil {
		return nil, err
	}

	return &CreateCheckoutOutput{Appointment: ap, Checkout: session}, nil
}

func (uc *CreateCheckout) checkWindow(
	ctx context.Context,
	providerID uint,
	date time.Time,
	startTime string,
	durationMin int,
) error {

	wh, err := uc.repo.GetWorkingHours(ctx, providerID, int(date.Weekday()))
	if err != nil || !wh.Active {
		return httperr.ErrBusiness("outside_working_hours")
	}

	start := timeutil.TimeToMinutes(startTime)
	end := start + durationMin
	open := timeutil.TimeToMinutes(wh.OpenTime)
	close := timeutil.TimeToMinutes(wh.CloseTime)

	if start < open || end > close {
		return httperr.ErrBusiness("outside_working_hours")
	}
	return nil
}
