package appointment

import "github.com/harmoniawellness/wellness-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentExpired PaymentStatus = "expired"
)

type RefundStatus string

const (
	RefundNone      RefundStatus = "none"
	RefundPending   RefundStatus = "pending"
	RefundProcessed RefundStatus = "processed"
)

// Actor identifies who triggered a lifecycle change.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorProvider Actor = "provider"
	ActorAdmin    Actor = "admin"
)

type RescheduleStatus string

const (
	ReschedulePending  RescheduleStatus = "pending"
	RescheduleAccepted RescheduleStatus = "accepted"
	RescheduleDeclined RescheduleStatus = "declined"
)

// ===============================
// Validations
// ===============================

// CanCancel allows cancellation from any live state; cancelled and
// completed are absorbing.
func CanCancel(current Status) error {
	switch current {
	case StatusCancelled:
		return httperr.ErrBusiness("already_cancelled")
	case StatusCompleted:
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanConfirm allows a provider to accept an appointment that is paid and
// awaiting confirmation.
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanMarkPaid guards the payment-confirmation transition.
func CanMarkPaid(current Status) error {
	if current != StatusPendingPayment {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanReschedule restricts proposals to appointments that will still happen.
func CanReschedule(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPendingPayment
}
