package models

import "time"

// WorkingHours holds the open window for one provider weekday.
// Times are naive HH:MM wall-clock strings; OpenTime < CloseTime.
type WorkingHours struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"index" json:"provider_id"`

	Weekday int `json:"weekday"`

	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
