package appointment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harmoniawellness/wellness-scheduler/internal/audit"
	"github.com/harmoniawellness/wellness-scheduler/internal/cache"
	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/notification"
	"github.com/harmoniawellness/wellness-scheduler/internal/timezone"
	"github.com/harmoniawellness/wellness-scheduler/internal/wallet"
)

// ======================================================
// INPUT
// ======================================================

type CancelInput struct {
	AppointmentID uint
	CancelledBy   domain.Actor
	Reason        string

	// ProviderID scopes the lookup for provider-initiated cancellations.
	ProviderID uint
	// UserID scopes the lookup for customer-initiated cancellations.
	UserID uint
}

type CancelOutput struct {
	Appointment  *models.Appointment `json:"appointment"`
	RefundAmount float64             `json:"refund_amount"`
}

// ======================================================
// USE CASE
// ======================================================

// CancelAppointment runs the cancellation workflow: state transition,
// refund credit to the wallet ledger, slot release, notification. The state
// transition is the primary effect; the side effects after it are
// sequenced, and a failure leaves refund_status pending for manual
// reconciliation rather than rolling the cancellation back.
type CancelAppointment struct {
	repo     domain.Repository
	wallet   *wallet.Service
	notifier notification.Notifier
	cache    *cache.AvailabilityCache
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewCancelAppointment(
	repo domain.Repository,
	walletSvc *wallet.Service,
	notifier notification.Notifier,
	availCache *cache.AvailabilityCache,
	auditDisp *audit.Dispatcher,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		wallet:   walletSvc,
		notifier: notifier,
		cache:    availCache,
		audit:    auditDisp,
		log:      log,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelInput,
) (*CancelOutput, error) {

	ap, err := uc.loadScoped(ctx, in)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	provider, err := uc.repo.GetProviderByID(ctx, ap.ProviderID)
	if err != nil {
		return nil, err
	}

	wasPaid := domain.PaymentStatus(ap.PaymentStatus) == domain.PaymentPaid

	now := timezone.NowIn(provider.Timezone)
	if err := domain.Cancel(ap, in.CancelledBy, in.Reason, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.processRefund(ctx, ap, wasPaid)

	if err := uc.repo.DeleteBookingSlotsForAppointment(ctx, ap.ID); err != nil {
		uc.log.Error("failed to release booking slot",
			zap.Uint("appointment_id", ap.ID), zap.Error(err))
	}

	uc.cache.Invalidate(ctx, ap.ProviderID, ap.Date)

	if ap.UserID != nil {
		msg := fmt.Sprintf("Your %s session on %s at %s was cancelled.",
			ap.ServiceName, ap.Date, ap.StartTime)
		if domain.RefundStatus(ap.RefundStatus) == domain.RefundProcessed {
			msg = fmt.Sprintf("%s A refund of %.2f was credited to your wallet.", msg, ap.RefundAmount)
		}
		uc.notifier.Notify(*ap.UserID, "appointment_cancelled", "Appointment cancelled", msg, ap.PaymentReference)
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: ap.ProviderID,
		Action:     "appointment_cancelled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"cancelled_by": string(in.CancelledBy),
			"reason":       in.Reason,
		},
	})

	return &CancelOutput{Appointment: ap, RefundAmount: ap.RefundAmount}, nil
}

// processRefund credits the stored price back to the customer's wallet.
// Only paid appointments with a linked user are refundable; anything that
// fails here leaves refund_status pending.
func (uc *CancelAppointment) processRefund(
	ctx context.Context,
	ap *models.Appointment,
	wasPaid bool,
) {
	if ap.UserID == nil || !wasPaid || ap.RefundAmount <= 0 {
		return
	}

	if _, err := uc.wallet.Credit(
		ctx, *ap.UserID, ap.RefundAmount,
		"refund_appointment_cancelled", ap.PaymentReference,
	); err != nil {
		uc.log.Error("refund credit failed, left pending",
			zap.Uint("appointment_id", ap.ID),
			zap.Float64("amount", ap.RefundAmount),
			zap.Error(err),
		)
		return
	}

	ap.RefundStatus = string(domain.RefundProcessed)
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		uc.log.Error("failed to persist refund status",
			zap.Uint("appointment_id", ap.ID), zap.Error(err))
	}
}

func (uc *CancelAppointment) loadScoped(
	ctx context.Context,
	in CancelInput,
) (*models.Appointment, error) {

	if in.CancelledBy == domain.ActorProvider {
		return uc.repo.GetAppointmentForProvider(ctx, in.AppointmentID, in.ProviderID)
	}

	ap, err := uc.repo.GetAppointmentByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if in.CancelledBy == domain.ActorCustomer {
		if ap.UserID == nil || *ap.UserID != in.UserID {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
	}
	return ap, nil
}
