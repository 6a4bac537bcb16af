package appointment

import (
	"context"
	"fmt"

	"github.com/harmoniawellness/wellness-scheduler/internal/audit"
	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/notification"
)

// ConfirmAppointment is the provider accepting a paid booking.
type ConfirmAppointment struct {
	repo     domain.Repository
	notifier notification.Notifier
	audit    *audit.Dispatcher
}

func NewConfirmAppointment(
	repo domain.Repository,
	notifier notification.Notifier,
	auditDisp *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:     repo,
		notifier: notifier,
		audit:    auditDisp,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	providerID uint,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForProvider(ctx, appointmentID, providerID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Confirm(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if ap.UserID != nil {
		uc.notifier.Notify(
			*ap.UserID,
			"appointment_confirmed",
			"Booking confirmed",
			fmt.Sprintf("Your %s session on %s at %s is confirmed.",
				ap.ServiceName, ap.Date, ap.StartTime),
			ap.PaymentReference,
		)
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		UserID:     &actorID,
		Action:     "appointment_confirmed",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
