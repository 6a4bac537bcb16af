package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// --------------------------------------------------
// Provider
// --------------------------------------------------

func (r *SchedulingGormRepository) GetProviderByID(
	ctx context.Context,
	id uint,
) (*models.Provider, error) {

	var p models.Provider
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SchedulingGormRepository) GetProviderBySlug(
	ctx context.Context,
	slug string,
) (*models.Provider, error) {

	var p models.Provider
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SchedulingGormRepository) GetProviderOwner(
	ctx context.Context,
	providerID uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND role = ?", providerID, "provider").
		Order("id ASC").
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// --------------------------------------------------
// Service catalog
// --------------------------------------------------

func (r *SchedulingGormRepository) GetService(
	ctx context.Context,
	providerID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", serviceID, providerID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *SchedulingGormRepository) GetServiceDuration(
	ctx context.Context,
	providerID uint,
	serviceID uint,
) (int, error) {

	var override models.ServiceDurationOverride
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND service_id = ?", providerID, serviceID).
		First(&override).Error
	if err == nil && override.DurationMin > 0 {
		return override.DurationMin, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	var svc models.Service
	err = r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", serviceID, providerID).
		First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return svc.DurationMin, nil
}

// --------------------------------------------------
// Working hours / blocked ranges
// --------------------------------------------------

func (r *SchedulingGormRepository) GetWorkingHours(
	ctx context.Context,
	providerID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND weekday = ?", providerID, weekday).
		First(&wh).Error; err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *SchedulingGormRepository) ListBlockedRangesForDay(
	ctx context.Context,
	providerID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.BlockedRange, error) {

	var blocks []models.BlockedRange
	if err := r.db.WithContext(ctx).
		Where(
			"provider_id = ? AND start_time < ? AND end_time > ?",
			providerID, dayEnd, dayStart,
		).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *SchedulingGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *SchedulingGormRepository) GetAppointmentByPaymentReference(
	ctx context.Context,
	reference string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("payment_reference = ?", reference).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *SchedulingGormRepository) GetAppointmentForProvider(
	ctx context.Context,
	appointmentID uint,
	providerID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", appointmentID, providerID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *SchedulingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *SchedulingGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	providerID uint,
	date string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where(
			"provider_id = ? AND date = ? AND status NOT IN ?",
			providerID, date,
			[]string{string(domain.StatusCancelled)},
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *SchedulingGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	providerID uint,
	dateFrom string,
	dateTo string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where(
			"provider_id = ? AND date >= ? AND date < ?",
			providerID, dateFrom, dateTo,
		).
		Order("date ASC, start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Booking slots
// --------------------------------------------------

func (r *SchedulingGormRepository) GetBookedSlot(
	ctx context.Context,
	providerID uint,
	date string,
	startTime string,
) (*models.BookingSlot, error) {

	var slot models.BookingSlot
	if err := r.db.WithContext(ctx).
		Where(
			"provider_id = ? AND date = ? AND start_time = ? AND status = ?",
			providerID, date, startTime, "booked",
		).
		First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *SchedulingGormRepository) ListBookedSlots(
	ctx context.Context,
	providerID uint,
	date string,
) ([]models.BookingSlot, error) {

	var slots []models.BookingSlot
	if err := r.db.WithContext(ctx).
		Where(
			"provider_id = ? AND date = ? AND status = ?",
			providerID, date, "booked",
		).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SchedulingGormRepository) CreateBookingSlot(
	ctx context.Context,
	slot *models.BookingSlot,
) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *SchedulingGormRepository) DeleteBookingSlotsForAppointment(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.BookingSlot{}).Error
}

// --------------------------------------------------
// Reschedule requests
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateRescheduleRequest(
	ctx context.Context,
	req *models.RescheduleRequest,
) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *SchedulingGormRepository) GetRescheduleRequest(
	ctx context.Context,
	id uint,
) (*models.RescheduleRequest, error) {

	var req models.RescheduleRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *SchedulingGormRepository) UpdateRescheduleRequest(
	ctx context.Context,
	req *models.RescheduleRequest,
) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
