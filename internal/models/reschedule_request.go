package models

import "time"

// RescheduleRequest is a provider proposal to move an appointment,
// resolved by the customer.
type RescheduleRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint        `gorm:"index" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"appointment"`

	ProposedDate string `gorm:"size:10" json:"proposed_date"`
	ProposedTime string `gorm:"size:5" json:"proposed_time"`

	Status     string     `gorm:"size:20;default:'pending'" json:"status"`
	ResolvedAt *time.Time `json:"resolved_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
