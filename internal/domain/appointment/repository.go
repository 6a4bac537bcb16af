package appointment

import (
	"context"
	"time"

	"github.com/harmoniawellness/wellness-scheduler/internal/models"
)

type Repository interface {
	// -------- Provider --------
	GetProviderByID(
		ctx context.Context,
		id uint,
	) (*models.Provider, error)

	GetProviderBySlug(
		ctx context.Context,
		slug string,
	) (*models.Provider, error)

	// GetProviderOwner resolves the portal user notified of customer
	// decisions on the provider's bookings.
	GetProviderOwner(
		ctx context.Context,
		providerID uint,
	) (*models.User, error)

	// -------- Service catalog --------
	GetService(
		ctx context.Context,
		providerID uint,
		serviceID uint,
	) (*models.Service, error)

	// GetServiceDuration resolves the session length for (provider,
	// service): provider override first, then the catalog value. Returns 0
	// when neither exists; callers apply the default.
	GetServiceDuration(
		ctx context.Context,
		providerID uint,
		serviceID uint,
	) (int, error)

	// -------- Working hours / blocks --------
	GetWorkingHours(
		ctx context.Context,
		providerID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListBlockedRangesForDay(
		ctx context.Context,
		providerID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.BlockedRange, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	GetAppointmentByPaymentReference(
		ctx context.Context,
		reference string,
	) (*models.Appointment, error)

	GetAppointmentForProvider(
		ctx context.Context,
		appointmentID uint,
		providerID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointmentsForDay(
		ctx context.Context,
		providerID uint,
		date string,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		providerID uint,
		dateFrom string,
		dateTo string,
	) ([]models.Appointment, error)

	// -------- Booking slots (reservation records) --------
	GetBookedSlot(
		ctx context.Context,
		providerID uint,
		date string,
		startTime string,
	) (*models.BookingSlot, error)

	ListBookedSlots(
		ctx context.Context,
		providerID uint,
		date string,
	) ([]models.BookingSlot, error)

	CreateBookingSlot(
		ctx context.Context,
		slot *models.BookingSlot,
	) error

	DeleteBookingSlotsForAppointment(
		ctx context.Context,
		appointmentID uint,
	) error

	// -------- Reschedule --------
	CreateRescheduleRequest(
		ctx context.Context,
		req *models.RescheduleRequest,
	) error

	GetRescheduleRequest(
		ctx context.Context,
		id uint,
	) (*models.RescheduleRequest, error)

	UpdateRescheduleRequest(
		ctx context.Context,
		req *models.RescheduleRequest,
	) error
}
