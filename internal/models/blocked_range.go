package models

import "time"

// BlockedRange makes a provider unavailable between StartTime and EndTime
// regardless of working hours (holiday, personal block).
type BlockedRange struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"index" json:"provider_id"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
