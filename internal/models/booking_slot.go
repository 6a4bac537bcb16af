package models

import "time"

// BookingSlot is the concurrency-control record for a reserved interval.
// The unique index on (provider_id, date, start_time) is what actually
// prevents two concurrent reservations of the same start; on postgres an
// exclusion constraint additionally rejects overlapping intervals
// (see internal/db).
type BookingSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProviderID uint   `gorm:"index:idx_booking_slot_key,unique" json:"provider_id"`
	Date       string `gorm:"size:10;index:idx_booking_slot_key,unique" json:"date"`
	StartTime  string `gorm:"size:5;index:idx_booking_slot_key,unique" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`

	Status string `gorm:"size:20;default:'booked'" json:"status"`

	AppointmentID uint `gorm:"index" json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
}
