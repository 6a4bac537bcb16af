package wallet

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbpkg "github.com/harmoniawellness/wellness-scheduler/internal/db"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return NewService(db)
}

func TestCreditCreatesWalletAndLedgerEntry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	txn, err := svc.Credit(ctx, 7, 180, "refund_appointment_cancelled", "ref-1")
	if err != nil {
		t.Fatalf("credit: %v", err)
	}

	if txn.Direction != DirectionCredit || txn.Amount != 180 || txn.BalanceAfter != 180 {
		t.Errorf("txn = %+v, want credit of 180 leaving 180", txn)
	}

	w, txns, err := svc.GetStatement(ctx, 7)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if w.Balance != 180 {
		t.Errorf("balance = %v, want 180", w.Balance)
	}
	if len(txns) != 1 || txns[0].Reason != "refund_appointment_cancelled" {
		t.Errorf("ledger = %+v, want the refund entry", txns)
	}
}

func TestDebitRequiresBalance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Debit(ctx, 7, 50, "booking_payment", "ref-1"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	if _, err := svc.Credit(ctx, 7, 100, "refund_appointment_cancelled", "ref-2"); err != nil {
		t.Fatalf("credit: %v", err)
	}

	txn, err := svc.Debit(ctx, 7, 60, "booking_payment", "ref-3")
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if txn.BalanceAfter != 40 {
		t.Errorf("balance after = %v, want 40", txn.BalanceAfter)
	}

	// Nothing left for a second 60.
	if _, err := svc.Debit(ctx, 7, 60, "booking_payment", "ref-4"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	w, _, err := svc.GetStatement(ctx, 7)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if w.Balance != 40 {
		t.Errorf("balance = %v, failed debit must not move it", w.Balance)
	}
}

func TestStatementNewestFirstAndZeroWallet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Unknown user gets an empty statement, not an error.
	w, txns, err := svc.GetStatement(ctx, 99)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if w.Balance != 0 || len(txns) != 0 {
		t.Errorf("empty wallet = %+v / %+v", w, txns)
	}

	for i, ref := range []string{"ref-a", "ref-b", "ref-c"} {
		if _, err := svc.Credit(ctx, 5, float64(10*(i+1)), "refund_appointment_cancelled", ref); err != nil {
			t.Fatalf("credit %s: %v", ref, err)
		}
	}

	_, txns, err = svc.GetStatement(ctx, 5)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if len(txns) != 3 || txns[0].Reference != "ref-c" || txns[2].Reference != "ref-a" {
		t.Errorf("order = %+v, want newest first", txns)
	}
}
