package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
)

func TestCreateCheckoutOpensPendingPaymentBooking(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)
	gateway := &fakeGateway{}

	provider, _ := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	uc := NewCreateCheckout(repo, gateway)

	out, err := uc.Execute(context.Background(), CreateCheckoutInput{
		ProviderSlug: provider.Slug,
		UserID:       &customer.ID,
		UserEmail:    customer.Email,
		ServiceID:    svc.ID,
		Date:         futureDate(72 * time.Hour),
		Time:         "10:00",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	ap := out.Appointment
	if ap.Status != string(domain.StatusPendingPayment) {
		t.Errorf("status = %q, want pending_payment", ap.Status)
	}
	if ap.PaymentReference == "" {
		t.Errorf("payment reference not set")
	}

	// Pricing is snapshotted at checkout time.
	if ap.ServiceName != svc.Name || ap.ServicePrice != svc.Price || ap.DurationMin != svc.DurationMin {
		t.Errorf("snapshot = (%q, %v, %d), want (%q, %v, %d)",
			ap.ServiceName, ap.ServicePrice, ap.DurationMin,
			svc.Name, svc.Price, svc.DurationMin)
	}

	if out.Checkout == nil || out.Checkout.RedirectURL == "" {
		t.Errorf("missing checkout session")
	}
	if len(gateway.checkouts) != 1 || gateway.checkouts[0].ExternalReference != ap.PaymentReference {
		t.Errorf("gateway reference mismatch: %+v", gateway.checkouts)
	}

	// The slot is only held once the payment confirms.
	if n := countSlots(t, db, ap.ID); n != 0 {
		t.Errorf("booking slots = %d, want 0 before payment", n)
	}
}

func TestCreateCheckoutUsesDurationOverride(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	provider, _ := seedProvider(t, db)
	svc := seedService(t, db, provider.ID)

	override := models.ServiceDurationOverride{
		ProviderID:  provider.ID,
		ServiceID:   svc.ID,
		DurationMin: 90,
	}
	if err := db.Create(&override).Error; err != nil {
		t.Fatalf("seed override: %v", err)
	}

	uc := NewCreateCheckout(repo, &fakeGateway{})

	out, err := uc.Execute(context.Background(), CreateCheckoutInput{
		ProviderSlug: provider.Slug,
		ServiceID:    svc.ID,
		Date:         futureDate(72 * time.Hour),
		Time:         "10:00",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if out.Appointment.DurationMin != 90 {
		t.Errorf("duration = %d, want override 90", out.Appointment.DurationMin)
	}
}

func TestCreateCheckoutRejectsShortNotice(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	provider, _ := seedProvider(t, db)
	svc := seedService(t, db, provider.ID)

	// 30 minutes ahead against a 120-minute minimum.
	soon := time.Now().UTC().Add(30 * time.Minute)

	uc := NewCreateCheckout(repo, &fakeGateway{})

	_, err := uc.Execute(context.Background(), CreateCheckoutInput{
		ProviderSlug: provider.Slug,
		ServiceID:    svc.ID,
		Date:         soon.Format("2006-01-02"),
		Time:         soon.Format("15:04"),
	})
	if !httperr.IsBusiness(err, "too_soon") {
		t.Fatalf("err = %v, want too_soon", err)
	}
}

func TestCreateCheckoutRejectsOutsideWorkingHours(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	provider, _ := seedProvider(t, db)
	svc := seedService(t, db, provider.ID)

	uc := NewCreateCheckout(repo, &fakeGateway{})

	// 23:00 + 60min runs past the 23:30 close.
	_, err := uc.Execute(context.Background(), CreateCheckoutInput{
		ProviderSlug: provider.Slug,
		ServiceID:    svc.ID,
		Date:         futureDate(72 * time.Hour),
		Time:         "23:00",
	})
	if !httperr.IsBusiness(err, "outside_working_hours") {
		t.Fatalf("err = %v, want outside_working_hours", err)
	}
}

func TestCreateCheckoutRejectsInactiveService(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	provider, _ := seedProvider(t, db)
	svc := seedService(t, db, provider.ID)

	if err := db.Model(svc).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate service: %v", err)
	}

	uc := NewCreateCheckout(repo, &fakeGateway{})

	_, err := uc.Execute(context.Background(), CreateCheckoutInput{
		ProviderSlug: provider.Slug,
		ServiceID:    svc.ID,
		Date:         futureDate(72 * time.Hour),
		Time:         "10:00",
	})
	if !httperr.IsBusiness(err, "service_not_found") {
		t.Fatalf("err = %v, want service_not_found", err)
	}
}

func TestCreateCheckoutRejectsHeldSlot(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	provider, _ := seedProvider(t, db)
	customer := seedCustomer(t, db)
	svc := seedService(t, db, provider.ID)

	date := futureDate(72 * time.Hour)

	// An existing paid booking holds 10:00.
	seedAppointment(t, db, provider, customer, svc, date, "10:00", "confirmed", "paid")

	uc := NewCreateCheckout(repo, &fakeGateway{})

	_, err := uc.Execute(context.Background(), CreateCheckoutInput{
		ProviderSlug: provider.Slug,
		ServiceID:    svc.ID,
		Date:         date,
		Time:         "10:00",
	})
	if !httperr.IsBusiness(err, "slot_conflict") {
		t.Fatalf("err = %v, want slot_conflict", err)
	}
}

func TestCreateCheckoutRejectsMalformedClock(t *testing.T) {
	db := newTestDB(t)
	repo := newTestRepo(t, db)

	provider, _ := seedProvider(t, db)
	svc := seedService(t, db, provider.ID)

	uc := NewCreateCheckout(repo, &fakeGateway{})

	for _, clock := range []string{"9:30", "25:00", "10h00", ""} {
		_, err := uc.Execute(context.Background(), CreateCheckoutInput{
			ProviderSlug: provider.Slug,
			ServiceID:    svc.ID,
			Date:         futureDate(72 * time.Hour),
			Time:         clock,
		})
		if !httperr.IsBusiness(err, "invalid_date_or_time") {
			t.Errorf("clock %q: err = %v, want invalid_date_or_time", clock, err)
		}
	}
}
