package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProviderID uint     `gorm:"index" json:"provider_id"`
	Provider   Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"provider"`

	UserID *uint `json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user,omitempty"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// Denormalized from Service at checkout time so later pricing edits
	// do not change existing bookings.
	ServiceName  string  `gorm:"size:100" json:"service_name"`
	ServicePrice float64 `json:"service_price"`
	DurationMin  int     `json:"duration_min"`

	Date      string `gorm:"size:10;index" json:"date"`
	StartTime string `gorm:"size:5" json:"start_time"`

	Status        string `gorm:"size:20;default:'pending_payment'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'pending'" json:"payment_status"`

	// Correlates the hosted checkout session with this appointment.
	PaymentReference string `gorm:"size:64;index" json:"payment_reference"`

	RefundStatus string  `gorm:"size:20;default:'none'" json:"refund_status"`
	RefundAmount float64 `json:"refund_amount"`

	CancelledAt     *time.Time `json:"cancelled_at"`
	CancelledBy     string     `gorm:"size:20" json:"cancelled_by"`
	CancelReason    string     `gorm:"size:255" json:"cancel_reason"`
	CompletedAt     *time.Time `json:"completed_at"`
	Notes           string     `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
