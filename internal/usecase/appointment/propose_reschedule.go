package appointment

import (
	"context"
	"fmt"

	"github.com/harmoniawellness/wellness-scheduler/internal/audit"
	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/notification"
	"github.com/harmoniawellness/wellness-scheduler/internal/timeutil"
)

// ======================================================
// INPUT
// ======================================================

type ProposeRescheduleInput struct {
	ProviderID    uint
	ActorID       uint
	AppointmentID uint

	ProposedDate string
	ProposedTime string
}

// ======================================================
// USE CASE
// ======================================================

// ProposeReschedule opens the negotiation: the provider suggests a new
// date/time and the customer resolves it. The appointment itself is not
// touched until the customer accepts.
type ProposeReschedule struct {
	repo     domain.Repository
	notifier notification.Notifier
	audit    *audit.Dispatcher
}

func NewProposeReschedule(
	repo domain.Repository,
	notifier notification.Notifier,
	auditDisp *audit.Dispatcher,
) *ProposeReschedule {
	return &ProposeReschedule{
		repo:     repo,
		notifier: notifier,
		audit:    auditDisp,
	}
}

func (uc *ProposeReschedule) Execute(
	ctx context.Context,
	in ProposeRescheduleInput,
) (*models.RescheduleRequest, error) {

	if !timeutil.IsValidClock(in.ProposedTime) {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	if _, err := timeutil.ParseDate(in.ProposedDate, nil); err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	ap, err := uc.repo.GetAppointmentForProvider(ctx, in.AppointmentID, in.ProviderID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	req := &models.RescheduleRequest{
		AppointmentID: ap.ID,
		ProposedDate:  in.ProposedDate,
		ProposedTime:  in.ProposedTime,
		Status:        string(domain.ReschedulePending),
	}

	if err := uc.repo.CreateRescheduleRequest(ctx, req); err != nil {
		return nil, err
	}

	if ap.UserID != nil {
		uc.notifier.Notify(
			*ap.UserID,
			"reschedule_proposed",
			"New time proposed",
			fmt.Sprintf("Your provider proposed moving your %s session to %s at %s.",
				ap.ServiceName, in.ProposedDate, in.ProposedTime),
			ap.PaymentReference,
		)
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: in.ProviderID,
		UserID:     &in.ActorID,
		Action:     "reschedule_proposed",
		Entity:     "reschedule_request",
		EntityID:   &req.ID,
	})

	return req, nil
}
