package appointment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/notification"
	"github.com/harmoniawellness/wellness-scheduler/internal/usecase/availability"
	"github.com/harmoniawellness/wellness-scheduler/internal/wallet"
)

// ConfirmPayment turns a confirmed payment event into a durable
// appointment + booking slot pair. Invoked from the payment webhook with
// the processor's external reference.
type ConfirmPayment struct {
	repo     domain.Repository
	reserve  *availability.ReserveSlot
	wallet   *wallet.Service
	notifier notification.Notifier
	log      *zap.Logger
}

func NewConfirmPayment(
	repo domain.Repository,
	reserve *availability.ReserveSlot,
	walletSvc *wallet.Service,
	notifier notification.Notifier,
	log *zap.Logger,
) *ConfirmPayment {
	return &ConfirmPayment{
		repo:     repo,
		reserve:  reserve,
		wallet:   walletSvc,
		notifier: notifier,
		log:      log,
	}
}

func (uc *ConfirmPayment) Execute(
	ctx context.Context,
	paymentReference string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByPaymentReference(ctx, paymentReference)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	// A manual cancellation can land before the webhook does. The
	// cancellation wins: the appointment stays cancelled and the captured
	// payment is returned to the wallet immediately.
	if domain.Status(ap.Status) == domain.StatusCancelled {
		return uc.refundAfterRace(ctx, ap)
	}

	if err := domain.MarkPaid(ap); err != nil {
		// Replayed webhook for an already-processed payment.
		if domain.PaymentStatus(ap.PaymentStatus) == domain.PaymentPaid {
			return ap, nil
		}
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// Reserve the slot now that the payment is secured. The slot was not
	// held during checkout, so a conflict here is possible; the payment is
	// not rolled back, the conflict is logged for manual reconciliation.
	_, err = uc.reserve.Execute(ctx, availability.ReserveSlotInput{
		ProviderID:    ap.ProviderID,
		Date:          ap.Date,
		StartTime:     ap.StartTime,
		DurationMin:   ap.DurationMin,
		AppointmentID: ap.ID,
	})
	if err != nil {
		uc.log.Error("paid appointment lost the slot race",
			zap.Uint("appointment_id", ap.ID),
			zap.String("date", ap.Date),
			zap.String("start", ap.StartTime),
			zap.Error(err),
		)
	}

	if ap.UserID != nil {
		uc.notifier.Notify(
			*ap.UserID,
			"booking_confirmed",
			"Booking received",
			fmt.Sprintf("Your %s session on %s at %s is awaiting provider confirmation.",
				ap.ServiceName, ap.Date, ap.StartTime),
			ap.PaymentReference,
		)
	}

	return ap, nil
}

// refundAfterRace credits the payment back when the appointment was
// cancelled before the confirmation arrived.
func (uc *ConfirmPayment) refundAfterRace(
	ctx context.Context,
	ap *models.Appointment,
) (*models.Appointment, error) {

	ap.PaymentStatus = string(domain.PaymentPaid)
	ap.RefundAmount = ap.ServicePrice
	ap.RefundStatus = string(domain.RefundPending)

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if ap.UserID != nil && ap.RefundAmount > 0 {
		if _, err := uc.wallet.Credit(
			ctx, *ap.UserID, ap.RefundAmount,
			"refund_cancelled_before_payment", ap.PaymentReference,
		); err != nil {
			uc.log.Error("refund credit failed after cancellation race",
				zap.Uint("appointment_id", ap.ID), zap.Error(err))
			return ap, nil
		}

		ap.RefundStatus = string(domain.RefundProcessed)
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return nil, err
		}

		uc.notifier.Notify(
			*ap.UserID,
			"refund_processed",
			"Payment refunded",
			fmt.Sprintf("Your payment of %.2f was returned to your wallet because the booking was cancelled.",
				ap.RefundAmount),
			ap.PaymentReference,
		)
	}

	return ap, nil
}
