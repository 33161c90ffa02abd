package models

import (
	"time"
)

// DestinationImage stores an image attached to a destination
type DestinationImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DestinationID string `gorm:"not null;index" json:"destination_id"`
	ImageURL      string `gorm:"not null" json:"image_url"`
}
