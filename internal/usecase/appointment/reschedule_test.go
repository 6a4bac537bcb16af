package appointment

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/usecase/availability"
	"github.com/harmoniawellness/wellness-scheduler/internal/wallet"
)

func TestProposeRescheduleCreatesPendingRequest(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)
	notifier := &fakeNotifier{}

	provider, _ := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	ap := seedAppointment(t, db, provider, customer, svc,
		futureDate(72*time.Hour), "10:00", "confirmed", "paid")

	uc := NewProposeReschedule(repo, notifier, newTestAudit(db))

	req, err := uc.Execute(context.Background(), ProposeRescheduleInput{
		ProviderID:    provider.ID,
		ActorID:       1,
		AppointmentID: ap.ID,
		ProposedDate:  futureDate(96 * time.Hour),
		ProposedTime:  "15:00",
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	if req.Status != string(domain.ReschedulePending) {
		t.Errorf("request status = %q, want pending", req.Status)
	}

	// Proposal alone never moves the appointment.
	var reloaded models.Appointment
	if err := db.First(&reloaded, ap.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.StartTime != "10:00" {
		t.Errorf("appointment moved on proposal: start = %q", reloaded.StartTime)
	}

	if len(notifier.byType("reschedule_proposed")) != 1 {
		t.Errorf("expected one proposal notification")
	}
}

func TestProposeRescheduleRejectsCancelled(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	provider, _ := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	ap := seedAppointment(t, db, provider, customer, svc,
		futureDate(72*time.Hour), "10:00", "cancelled", "paid")

	uc := NewProposeReschedule(repo, &fakeNotifier{}, newTestAudit(db))

	_, err := uc.Execute(context.Background(), ProposeRescheduleInput{
		ProviderID:    provider.ID,
		AppointmentID: ap.ID,
		ProposedDate:  futureDate(96 * time.Hour),
		ProposedTime:  "15:00",
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("err = %v, want invalid_state", err)
	}
}

func TestRescheduleAcceptMovesAppointment(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)
	notifier := &fakeNotifier{}

	provider, owner := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	oldDate := futureDate(72 * time.Hour)
	newDate := futureDate(96 * time.Hour)

	ap := seedAppointment(t, db, provider, customer, svc,
		oldDate, "10:00", "confirmed", "paid")

	propose := NewProposeReschedule(repo, &fakeNotifier{}, newTestAudit(db))
	req, err := propose.Execute(context.Background(), ProposeRescheduleInput{
		ProviderID:    provider.ID,
		AppointmentID: ap.ID,
		ProposedDate:  newDate,
		ProposedTime:  "15:00",
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	respond := NewRespondReschedule(
		repo,
		availability.NewReserveSlot(repo, nil),
		wallet.NewService(db),
		notifier,
		nil,
		zap.NewNop(),
	)

	out, err := respond.Execute(context.Background(), RespondRescheduleInput{
		RequestID: req.ID,
		UserID:    customer.ID,
		Accept:    true,
	})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	if !out.Accepted {
		t.Fatalf("out.Accepted = false")
	}
	if out.Appointment.Date != newDate || out.Appointment.StartTime != "15:00" {
		t.Errorf("appointment at %s %s, want %s 15:00",
			out.Appointment.Date, out.Appointment.StartTime, newDate)
	}
	if out.Appointment.Status != string(domain.StatusConfirmed) {
		t.Errorf("status = %q, want confirmed", out.Appointment.Status)
	}

	// One slot, at the new time.
	var slots []models.BookingSlot
	if err := db.Where("appointment_id = ?", ap.ID).Find(&slots).Error; err != nil {
		t.Fatalf("load slots: %v", err)
	}
	if len(slots) != 1 || slots[0].Date != newDate || slots[0].StartTime != "15:00" {
		t.Errorf("slots = %+v, want one at %s 15:00", slots, newDate)
	}

	// Accepting is a move, not a cancellation: no money touched.
	if got := walletBalance(t, db, customer.ID); got != 0 {
		t.Errorf("wallet balance = %v, want 0", got)
	}

	ownerNotes := notifier.byType("reschedule_accepted")
	if len(ownerNotes) != 1 || ownerNotes[0].UserID != owner.ID {
		t.Errorf("expected provider owner notification, got %+v", ownerNotes)
	}
}

func TestRescheduleAcceptFailsWhenTargetTaken(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	provider, _ := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	targetDate := futureDate(96 * time.Hour)

	ap := seedAppointment(t, db, provider, customer, svc,
		futureDate(72*time.Hour), "10:00", "confirmed", "paid")

	// Another booking already holds the proposed time.
	other := seedAppointment(t, db, provider, customer, svc,
		targetDate, "15:00", "confirmed", "paid")

	propose := NewProposeReschedule(repo, &fakeNotifier{}, newTestAudit(db))
	req, err := propose.Execute(context.Background(), ProposeRescheduleInput{
		ProviderID:    provider.ID,
		AppointmentID: ap.ID,
		ProposedDate:  targetDate,
		ProposedTime:  "15:00",
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	respond := NewRespondReschedule(
		repo,
		availability.NewReserveSlot(repo, nil),
		wallet.NewService(db),
		&fakeNotifier{},
		nil,
		zap.NewNop(),
	)

	_, err = respond.Execute(context.Background(), RespondRescheduleInput{
		RequestID: req.ID,
		UserID:    customer.ID,
		Accept:    true,
	})
	if !httperr.IsBusiness(err, "slot_conflict") {
		t.Fatalf("err = %v, want slot_conflict", err)
	}

	// The other booking's slot is untouched.
	if n := countSlots(t, db, other.ID); n != 1 {
		t.Errorf("other booking slots = %d, want 1", n)
	}
}

func TestRescheduleDeclineCancelsAndRefundsOnce(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)
	notifier := &fakeNotifier{}

	provider, _ := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	ap := seedAppointment(t, db, provider, customer, svc,
		futureDate(72*time.Hour), "10:00", "confirmed", "paid")

	propose := NewProposeReschedule(repo, &fakeNotifier{}, newTestAudit(db))
	req, err := propose.Execute(context.Background(), ProposeRescheduleInput{
		ProviderID:    provider.ID,
		AppointmentID: ap.ID,
		ProposedDate:  futureDate(96 * time.Hour),
		ProposedTime:  "15:00",
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	respond := NewRespondReschedule(
		repo,
		availability.NewReserveSlot(repo, nil),
		wallet.NewService(db),
		notifier,
		nil,
		zap.NewNop(),
	)

	out, err := respond.Execute(context.Background(), RespondRescheduleInput{
		RequestID: req.ID,
		UserID:    customer.ID,
		Accept:    false,
	})
	if err != nil {
		t.Fatalf("decline: %v", err)
	}

	if out.Accepted {
		t.Fatalf("out.Accepted = true, want false")
	}
	if out.Appointment.Status != string(domain.StatusCancelled) {
		t.Errorf("status = %q, want cancelled", out.Appointment.Status)
	}
	if got := walletBalance(t, db, customer.ID); got != svc.Price {
		t.Errorf("wallet balance = %v, want %v", got, svc.Price)
	}
	if n := countSlots(t, db, ap.ID); n != 0 {
		t.Errorf("booking slots = %d, want 0", n)
	}

	// A second response hits the resolved request.
	_, err = respond.Execute(context.Background(), RespondRescheduleInput{
		RequestID: req.ID,
		UserID:    customer.ID,
		Accept:    false,
	})
	if !httperr.IsBusiness(err, "already_processed") {
		t.Fatalf("second respond err = %v, want already_processed", err)
	}
	if got := walletBalance(t, db, customer.ID); got != svc.Price {
		t.Errorf("wallet balance after replay = %v, want %v", got, svc.Price)
	}
}

func TestRespondRescheduleWrongUser(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	provider, _ := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	ap := seedAppointment(t, db, provider, customer, svc,
		futureDate(72*time.Hour), "10:00", "confirmed", "paid")

	propose := NewProposeReschedule(repo, &fakeNotifier{}, newTestAudit(db))
	req, err := propose.Execute(context.Background(), ProposeRescheduleInput{
		ProviderID:    provider.ID,
		AppointmentID: ap.ID,
		ProposedDate:  futureDate(96 * time.Hour),
		ProposedTime:  "15:00",
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	respond := NewRespondReschedule(
		repo,
		availability.NewReserveSlot(repo, nil),
		wallet.NewService(db),
		&fakeNotifier{},
		nil,
		zap.NewNop(),
	)

	_, err = respond.Execute(context.Background(), RespondRescheduleInput{
		RequestID: req.ID,
		UserID:    customer.ID + 1000,
		Accept:    true,
	})
	if !httperr.IsBusiness(err, "request_not_found") {
		t.Fatalf("err = %v, want request_not_found", err)
	}
}
