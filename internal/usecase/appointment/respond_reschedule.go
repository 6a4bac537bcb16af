package appointment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harmoniawellness/wellness-scheduler/internal/cache"
	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/notification"
	"github.com/harmoniawellness/wellness-scheduler/internal/timezone"
	"github.com/harmoniawellness/wellness-scheduler/internal/usecase/availability"
	"github.com/harmoniawellness/wellness-scheduler/internal/wallet"
)

// ======================================================
// INPUT
// ======================================================

type RespondRescheduleInput struct {
	RequestID uint
	UserID    uint
	Accept    bool
}

type RespondRescheduleOutput struct {
	Accepted    bool                `json:"accepted"`
	Appointment *models.Appointment `json:"appointment"`
}

// ======================================================
// USE CASE
// ======================================================

// RespondReschedule resolves a pending proposal. Accepting moves the
// appointment to the proposed date/time and re-reserves the slot; declining
// cancels the appointment and refunds a paid amount to the wallet. No
// lead-time rule applies: the customer is answering, not cancelling.
type RespondReschedule struct {
	repo     domain.Repository
	reserve  *availability.ReserveSlot
	wallet   *wallet.Service
	notifier notification.Notifier
	cache    *cache.AvailabilityCache
	log      *zap.Logger
}

func NewRespondReschedule(
	repo domain.Repository,
	reserve *availability.ReserveSlot,
	walletSvc *wallet.Service,
	notifier notification.Notifier,
	availCache *cache.AvailabilityCache,
	log *zap.Logger,
) *RespondReschedule {
	return &RespondReschedule{
		repo:     repo,
		reserve:  reserve,
		wallet:   walletSvc,
		notifier: notifier,
		cache:    availCache,
		log:      log,
	}
}

func (uc *RespondReschedule) Execute(
	ctx context.Context,
	in RespondRescheduleInput,
) (*RespondRescheduleOutput, error) {

	req, err := uc.repo.GetRescheduleRequest(ctx, in.RequestID)
	if err != nil {
		return nil, httperr.ErrBusiness("request_not_found")
	}

	if domain.RescheduleStatus(req.Status) != domain.ReschedulePending {
		return nil, httperr.ErrBusiness("already_processed")
	}

	ap, err := uc.repo.GetAppointmentByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if ap.UserID == nil || *ap.UserID != in.UserID {
		return nil, httperr.ErrBusiness("request_not_found")
	}

	provider, err := uc.repo.GetProviderByID(ctx, ap.ProviderID)
	if err != nil {
		return nil, err
	}
	now := timezone.NowIn(provider.Timezone)

	if in.Accept {
		if err := uc.accept(ctx, req, ap); err != nil {
			return nil, err
		}
	} else {
		uc.decline(ctx, req, ap, now)
	}

	req.ResolvedAt = &now
	if err := uc.repo.UpdateRescheduleRequest(ctx, req); err != nil {
		return nil, err
	}

	uc.notifyProvider(ctx, ap, in.Accept)

	return &RespondRescheduleOutput{Accepted: in.Accept, Appointment: ap}, nil
}

// accept re-reserves the slot at the proposed time before mutating the
// appointment, so a taken target time fails the whole acceptance with no
// partial effect.
func (uc *RespondReschedule) accept(
	ctx context.Context,
	req *models.RescheduleRequest,
	ap *models.Appointment,
) error {

	oldDate := ap.Date

	if err := uc.repo.DeleteBookingSlotsForAppointment(ctx, ap.ID); err != nil {
		return err
	}

	if _, err := uc.reserve.Execute(ctx, availability.ReserveSlotInput{
		ProviderID:    ap.ProviderID,
		Date:          req.ProposedDate,
		StartTime:     req.ProposedTime,
		DurationMin:   ap.DurationMin,
		AppointmentID: ap.ID,
	}); err != nil {
		return err
	}

	domain.ApplyReschedule(ap, req.ProposedDate, req.ProposedTime)
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return err
	}

	req.Status = string(domain.RescheduleAccepted)

	uc.cache.Invalidate(ctx, ap.ProviderID, oldDate)
	uc.cache.Invalidate(ctx, ap.ProviderID, req.ProposedDate)

	return nil
}

// decline cancels the appointment and refunds a paid amount. The refund
// follows the same ledger sequence as a cancellation; a failed credit
// leaves refund_status pending without undoing the decline.
func (uc *RespondReschedule) decline(
	ctx context.Context,
	req *models.RescheduleRequest,
	ap *models.Appointment,
	now time.Time,
) {

	wasPaid := domain.PaymentStatus(ap.PaymentStatus) == domain.PaymentPaid

	if err := domain.Cancel(ap, domain.ActorCustomer, "reschedule_declined", now); err == nil {
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			uc.log.Error("failed to persist reschedule decline",
				zap.Uint("appointment_id", ap.ID), zap.Error(err))
		}

		if ap.UserID != nil && wasPaid && ap.RefundAmount > 0 {
			if _, err := uc.wallet.Credit(
				ctx, *ap.UserID, ap.RefundAmount,
				"refund_reschedule_declined", ap.PaymentReference,
			); err != nil {
				uc.log.Error("decline refund failed, left pending",
					zap.Uint("appointment_id", ap.ID), zap.Error(err))
			} else {
				ap.RefundStatus = string(domain.RefundProcessed)
				if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
					uc.log.Error("failed to persist refund status",
						zap.Uint("appointment_id", ap.ID), zap.Error(err))
				}
			}
		}

		if err := uc.repo.DeleteBookingSlotsForAppointment(ctx, ap.ID); err != nil {
			uc.log.Error("failed to release booking slot",
				zap.Uint("appointment_id", ap.ID), zap.Error(err))
		}

		uc.cache.Invalidate(ctx, ap.ProviderID, ap.Date)
	}

	req.Status = string(domain.RescheduleDeclined)
}

func (uc *RespondReschedule) notifyProvider(
	ctx context.Context,
	ap *models.Appointment,
	accepted bool,
) {
	owner, err := uc.repo.GetProviderOwner(ctx, ap.ProviderID)
	if err != nil {
		uc.log.Warn("no provider owner to notify",
			zap.Uint("provider_id", ap.ProviderID), zap.Error(err))
		return
	}

	if accepted {
		uc.notifier.Notify(
			owner.ID,
			"reschedule_accepted",
			"Reschedule accepted",
			fmt.Sprintf("The customer accepted the new time for %s: %s at %s.",
				ap.ServiceName, ap.Date, ap.StartTime),
			ap.PaymentReference,
		)
		return
	}

	uc.notifier.Notify(
		owner.ID,
		"reschedule_declined",
		"Reschedule declined",
		fmt.Sprintf("The customer declined the proposed time for %s; the booking was cancelled.",
			ap.ServiceName),
		ap.PaymentReference,
	)
}
