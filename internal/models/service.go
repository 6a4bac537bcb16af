package models

import "time"

type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"index" json:"provider_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`

	Category string `gorm:"size:50" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceDurationOverride lets a provider run a catalog service with a
// different session length than the catalog default.
type ServiceDurationOverride struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"index:idx_duration_override,unique" json:"provider_id"`
	ServiceID  uint `gorm:"index:idx_duration_override,unique" json:"service_id"`

	DurationMin int `json:"duration_min"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
