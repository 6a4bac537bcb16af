package appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/audit"
	dbpkg "github.com/harmoniawellness/wellness-scheduler/internal/db"
	"github.com/harmoniawellness/wellness-scheduler/internal/infra/repository"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/payments"
	"github.com/harmoniawellness/wellness-scheduler/internal/timeutil"
)

// ======================================================
// TEST DB
// ======================================================

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func newTestRepo(t *testing.T, db *gorm.DB) *repository.SchedulingGormRepository {
	t.Helper()
	return repository.NewSchedulingGormRepository(db)
}

func newTestAudit(db *gorm.DB) *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(db), zap.NewNop())
}

// ======================================================
// FAKES
// ======================================================

type fakeNotifier struct {
	mu   sync.Mutex
	sent []fakeNotification
}

type fakeNotification struct {
	UserID    uint
	Type      string
	Title     string
	Message   string
	Reference string
}

func (f *fakeNotifier) Notify(userID uint, notifType, title, message, reference string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, fakeNotification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Reference: reference,
	})
}

func (f *fakeNotifier) byType(notifType string) []fakeNotification {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []fakeNotification
	for _, n := range f.sent {
		if n.Type == notifType {
			out = append(out, n)
		}
	}
	return out
}

type fakeGateway struct {
	checkouts []payments.CheckoutInput
	getErr    error
	payment   *payments.PaymentInfo
}

func (f *fakeGateway) CreateCheckout(
	_ context.Context,
	in payments.CheckoutInput,
) (*payments.CheckoutSession, error) {
	f.checkouts = append(f.checkouts, in)
	return &payments.CheckoutSession{
		PreferenceID: "pref-test",
		RedirectURL:  "https://checkout.test/" + in.ExternalReference,
	}, nil
}

func (f *fakeGateway) GetPayment(
	_ context.Context,
	_ int64,
) (*payments.PaymentInfo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.payment, nil
}

// ======================================================
// SEEDS
// ======================================================

// seedProvider creates a provider in UTC with a permissive schedule and a
// portal owner account.
func seedProvider(t *testing.T, db *gorm.DB) (*models.Provider, *models.User) {
	t.Helper()

	provider := &models.Provider{
		Name:              "Harmonia Massoterapia",
		Slug:              "harmonia-massoterapia",
		Timezone:          "UTC",
		MinAdvanceMinutes: 120,
	}
	if err := db.Create(provider).Error; err != nil {
		t.Fatalf("seed provider: %v", err)
	}

	owner := &models.User{
		ProviderID:   &provider.ID,
		Name:         "Dona Marta",
		Email:        fmt.Sprintf("owner+%s@example.com", t.Name()),
		PasswordHash: "x",
		Role:         "provider",
	}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	for weekday := 0; weekday < 7; weekday++ {
		wh := models.WorkingHours{
			ProviderID: provider.ID,
			Weekday:    weekday,
			Active:     true,
			OpenTime:   "00:00",
			CloseTime:  "23:30",
		}
		if err := db.Create(&wh).Error; err != nil {
			t.Fatalf("seed working hours: %v", err)
		}
	}

	return provider, owner
}

func seedCustomer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	customer := &models.User{
		Name:         "Ana Cliente",
		Email:        fmt.Sprintf("ana+%s@example.com", t.Name()),
		PasswordHash: "x",
		Role:         "customer",
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func seedService(t *testing.T, db *gorm.DB, providerID uint) *models.Service {
	t.Helper()

	svc := &models.Service{
		ProviderID:  providerID,
		Name:        "Massagem Relaxante",
		DurationMin: 60,
		Price:       180,
		Active:      true,
	}
	if err := db.Create(svc).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return svc
}

// seedAppointment creates an appointment already past checkout, in the
// given status, with its booking slot when the status implies one.
func seedAppointment(
	t *testing.T,
	db *gorm.DB,
	provider *models.Provider,
	customer *models.User,
	svc *models.Service,
	date string,
	startTime string,
	status string,
	paymentStatus string,
) *models.Appointment {
	t.Helper()

	ap := &models.Appointment{
		ProviderID:       provider.ID,
		UserID:           &customer.ID,
		ServiceID:        svc.ID,
		ServiceName:      svc.Name,
		ServicePrice:     svc.Price,
		DurationMin:      svc.DurationMin,
		Date:             date,
		StartTime:        startTime,
		Status:           status,
		PaymentStatus:    paymentStatus,
		PaymentReference: fmt.Sprintf("ref-%s-%s", t.Name(), startTime),
		RefundStatus:     "none",
	}
	if err := db.Create(ap).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	if status == "pending" || status == "confirmed" {
		slot := models.BookingSlot{
			ProviderID:    provider.ID,
			Date:          date,
			StartTime:     startTime,
			EndTime:       timeutil.MinutesToTime(timeutil.TimeToMinutes(startTime) + svc.DurationMin),
			Status:        "booked",
			AppointmentID: ap.ID,
		}
		if err := db.Create(&slot).Error; err != nil {
			t.Fatalf("seed booking slot: %v", err)
		}
	}

	return ap
}

func countSlots(t *testing.T, db *gorm.DB, appointmentID uint) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.BookingSlot{}).
		Where("appointment_id = ?", appointmentID).
		Count(&n).Error; err != nil {
		t.Fatalf("count slots: %v", err)
	}
	return n
}

func walletBalance(t *testing.T, db *gorm.DB, userID uint) float64 {
	t.Helper()

	var w models.Wallet
	err := db.Where("user_id = ?", userID).First(&w).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	if err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	return w.Balance
}
