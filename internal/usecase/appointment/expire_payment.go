package appointment

import (
	"context"

	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/timezone"
)

// ExpirePayment abandons a checkout whose session expired without payment.
// No slot was reserved and nothing is refunded.
type ExpirePayment struct {
	repo domain.Repository
}

func NewExpirePayment(repo domain.Repository) *ExpirePayment {
	return &ExpirePayment{repo: repo}
}

func (uc *ExpirePayment) Execute(
	ctx context.Context,
	paymentReference string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByPaymentReference(ctx, paymentReference)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	provider, err := uc.repo.GetProviderByID(ctx, ap.ProviderID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(provider.Timezone)
	if err := domain.ExpirePayment(ap, now); err != nil {
		// Expiry events may race confirmation; a paid appointment stays.
		return ap, nil
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	return ap, nil
}
