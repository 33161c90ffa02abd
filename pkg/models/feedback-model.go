package models

import (
	"time"
)

// Feedback is an immutable comment with a rating left by a user
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DestinationID string `gorm:"not null;index" json:"destination_id"`
	UserID        uint   `gorm:"not null;index" json:"user_id"`
	User          *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Content     string    `gorm:"not null" json:"content"`
	Rating      int       `gorm:"not null" json:"rating"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
}
