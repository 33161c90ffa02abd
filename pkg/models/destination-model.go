package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Destination represents a bookable travel destination
type Destination struct {
	DestinationID string         `gorm:"primaryKey" json:"destination_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Category    string `gorm:"index" json:"category"`

	// Cost is stored after the discount has been applied at creation time
	Cost     float64 `gorm:"not null" json:"cost"`
	Discount float64 `json:"discount"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// Availability ledger. Capacity records the slot count at creation so
	// releases can optionally be capped; AvailableSlots never goes below zero
	// and IsAvailable tracks available_slots > 0 after every transition.
	Capacity       int  `gorm:"not null;default:0" json:"capacity"`
	AvailableSlots int  `gorm:"not null;default:0" json:"available_slots"`
	IsAvailable    bool `gorm:"not null;default:true" json:"is_available"`

	// Derived rating aggregates, updated with each feedback submission
	AverageRating int `gorm:"not null;default:0" json:"average_rating"`
	FeedbackCount int `gorm:"not null;default:0" json:"feedback_count"`

	BusinessOwnerID uint  `gorm:"not null;index" json:"business_owner_id"`
	BusinessOwner   *User `gorm:"foreignKey:BusinessOwnerID" json:"business_owner,omitempty"`

	// Relationships
	Images    []DestinationImage `gorm:"foreignKey:DestinationID;references:DestinationID" json:"images,omitempty"`
	Feedbacks []Feedback         `gorm:"foreignKey:DestinationID;references:DestinationID" json:"feedbacks,omitempty"`
}

// BeforeCreate assigns a UUID identity when none was supplied
func (d *Destination) BeforeCreate(tx *gorm.DB) error {
	if d.DestinationID == "" {
		d.DestinationID = uuid.New().String()
	}
	return nil
}
