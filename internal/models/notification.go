package models

import "time"

type Notification struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Type      string `gorm:"size:50" json:"type"`
	Title     string `gorm:"size:100" json:"title"`
	Message   string `gorm:"size:500" json:"message"`
	Reference string `gorm:"size:64" json:"reference"`

	Read bool `gorm:"default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
