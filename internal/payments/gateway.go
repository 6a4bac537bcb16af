package payments

import "context"

// CheckoutInput describes a fixed-amount checkout session for one
// appointment. ExternalReference correlates the processor's asynchronous
// callbacks back to the appointment.
type CheckoutInput struct {
	Title             string
	Amount            float64
	PayerEmail        string
	ExternalReference string
}

type CheckoutSession struct {
	PreferenceID string `json:"preference_id"`
	RedirectURL  string `json:"redirect_url"`
}

// PaymentInfo is the subset of a processor payment the webhook path needs.
type PaymentInfo struct {
	ID                int64
	Status            string
	ExternalReference string
	Amount            float64
}

// Payment statuses the webhook acts on.
const (
	StatusApproved  = "approved"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Gateway is the hosted payments processor contract. Workflows depend on
// this interface; tests substitute a fake.
type Gateway interface {
	CreateCheckout(ctx context.Context, in CheckoutInput) (*CheckoutSession, error)
	GetPayment(ctx context.Context, id int64) (*PaymentInfo, error)
}
