package appointment

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/usecase/availability"
	"github.com/harmoniawellness/wellness-scheduler/internal/wallet"
)

func TestConfirmPaymentReservesSlot(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)
	notifier := &fakeNotifier{}

	provider, _ := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	ap := seedAppointment(t, db, provider, customer, svc,
		futureDate(72*time.Hour), "10:00", "pending_payment", "pending")

	uc := NewConfirmPayment(
		repo,
		availability.NewReserveSlot(repo, nil),
		wallet.NewService(db),
		notifier,
		zap.NewNop(),
	)

	got, err := uc.Execute(context.Background(), ap.PaymentReference)
	if err != nil {
		t.Fatalf("confirm payment: %v", err)
	}

	if got.Status != string(domain.StatusPending) {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.PaymentStatus != string(domain.PaymentPaid) {
		t.Errorf("payment status = %q, want paid", got.PaymentStatus)
	}

	if n := countSlots(t, db, ap.ID); n != 1 {
		t.Errorf("booking slots = %d, want 1", n)
	}

	if len(notifier.byType("booking_confirmed")) != 1 {
		t.Errorf("expected one booking notification")
	}
}

func TestConfirmPaymentReplayIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	provider, _ := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	ap := seedAppointment(t, db, provider, customer, svc,
		futureDate(72*time.Hour), "11:00", "pending_payment", "pending")

	uc := NewConfirmPayment(
		repo,
		availability.NewReserveSlot(repo, nil),
		wallet.NewService(db),
		&fakeNotifier{},
		zap.NewNop(),
	)

	if _, err := uc.Execute(context.Background(), ap.PaymentReference); err != nil {
		t.Fatalf("first webhook: %v", err)
	}

	got, err := uc.Execute(context.Background(), ap.PaymentReference)
	if err != nil {
		t.Fatalf("replayed webhook: %v", err)
	}

	if got.PaymentStatus != string(domain.PaymentPaid) {
		t.Errorf("payment status = %q, want paid", got.PaymentStatus)
	}
	if n := countSlots(t, db, ap.ID); n != 1 {
		t.Errorf("booking slots after replay = %d, want 1", n)
	}
}

func TestConfirmPaymentUnknownReference(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	uc := NewConfirmPayment(
		repo,
		availability.NewReserveSlot(repo, nil),
		wallet.NewService(db),
		&fakeNotifier{},
		zap.NewNop(),
	)

	_, err := uc.Execute(context.Background(), "no-such-reference")
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("err = %v, want appointment_not_found", err)
	}
}

// The customer cancels while the payment confirmation is in flight. The
// cancellation stands and the captured amount lands in the wallet.
func TestConfirmPaymentAfterCancellationRefunds(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)
	notifier := &fakeNotifier{}

	provider, _ := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	ap := seedAppointment(t, db, provider, customer, svc,
		futureDate(72*time.Hour), "12:00", "pending_payment", "pending")

	walletSvc := wallet.NewService(db)

	cancelUC := NewCancelAppointment(
		repo, walletSvc, &fakeNotifier{}, nil, newTestAudit(db), zap.NewNop(),
	)
	if _, err := cancelUC.Execute(context.Background(), CancelInput{
		AppointmentID: ap.ID,
		CancelledBy:   domain.ActorCustomer,
		UserID:        customer.ID,
	}); err != nil {
		t.Fatalf("cancel before webhook: %v", err)
	}

	// No refund yet: the payment was still pending at cancel time.
	if got := walletBalance(t, db, customer.ID); got != 0 {
		t.Fatalf("wallet balance before webhook = %v, want 0", got)
	}

	confirmUC := NewConfirmPayment(
		repo,
		availability.NewReserveSlot(repo, nil),
		walletSvc,
		notifier,
		zap.NewNop(),
	)

	got, err := confirmUC.Execute(context.Background(), ap.PaymentReference)
	if err != nil {
		t.Fatalf("late webhook: %v", err)
	}

	if got.Status != string(domain.StatusCancelled) {
		t.Errorf("status = %q, want cancelled", got.Status)
	}
	if got.RefundStatus != string(domain.RefundProcessed) {
		t.Errorf("refund status = %q, want processed", got.RefundStatus)
	}
	if balance := walletBalance(t, db, customer.ID); balance != svc.Price {
		t.Errorf("wallet balance = %v, want %v", balance, svc.Price)
	}

	// The cancelled appointment never takes the slot.
	if n := countSlots(t, db, ap.ID); n != 0 {
		t.Errorf("booking slots = %d, want 0", n)
	}

	if len(notifier.byType("refund_processed")) != 1 {
		t.Errorf("expected one refund notification")
	}
}
