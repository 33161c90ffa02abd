package models

import (
	"time"
)

// Favorite marks a destination as a favorite of a user.
// The composite unique index rejects duplicate pairs at the database level.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID        uint         `gorm:"not null;uniqueIndex:idx_user_destination" json:"user_id"`
	DestinationID string       `gorm:"not null;uniqueIndex:idx_user_destination" json:"destination_id"`
	Destination   *Destination `gorm:"foreignKey:DestinationID;references:DestinationID" json:"destination,omitempty"`
}
