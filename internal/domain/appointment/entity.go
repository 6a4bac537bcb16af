package appointment

import (
	"time"

	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/timeutil"
)

// ProviderCancelLeadTime is the minimum notice a provider must give before
// cancelling. Customer and admin cancellations are not subject to it.
const ProviderCancelLeadTime = time.Hour

// ===============================
// Domain Actions
// ===============================

// ScheduledAt combines the appointment's stored date and start time into a
// naive wall-clock timestamp.
func ScheduledAt(ap *models.Appointment, loc *time.Location) (time.Time, error) {
	date, err := timeutil.ParseDate(ap.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.ParseTimeString(date, ap.StartTime), nil
}

// Cancel applies the cancellation transition, including the provider
// lead-time rule, and records refund metadata. It mutates ap only when the
// transition is allowed.
func Cancel(ap *models.Appointment, by Actor, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	if by == ActorProvider {
		scheduled, err := ScheduledAt(ap, now.Location())
		if err != nil {
			return httperr.ErrBusiness("invalid_date_or_time")
		}
		if scheduled.Sub(now) < ProviderCancelLeadTime {
			return httperr.ErrBusiness("cancellation_window_expired")
		}
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancelledBy = string(by)
	ap.CancelReason = reason

	// Full refund of the stored price; no proration.
	ap.RefundAmount = ap.ServicePrice
	ap.RefundStatus = string(RefundPending)

	return nil
}

// MarkPaid applies the payment-confirmed transition: the appointment moves
// to pending, awaiting provider acceptance.
func MarkPaid(ap *models.Appointment) error {
	if err := CanMarkPaid(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusPending)
	ap.PaymentStatus = string(PaymentPaid)
	return nil
}

// ExpirePayment abandons an unpaid checkout.
func ExpirePayment(ap *models.Appointment, now time.Time) error {
	if err := CanMarkPaid(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.PaymentStatus = string(PaymentExpired)
	ap.CancelledAt = &now
	ap.CancelledBy = string(ActorAdmin)
	ap.CancelReason = "checkout_expired"
	return nil
}

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusConfirmed)
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// ApplyReschedule moves the appointment to the accepted proposal and leaves
// it confirmed.
func ApplyReschedule(ap *models.Appointment, date, startTime string) {
	ap.Date = date
	ap.StartTime = startTime
	ap.Status = string(StatusConfirmed)
}

// EndTimeOf computes the HH:MM end of the appointment from its stored
// duration.
func EndTimeOf(ap *models.Appointment) string {
	start := timeutil.TimeToMinutes(ap.StartTime)
	return timeutil.MinutesToTime(start + ap.DurationMin)
}
