package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole identifies what a user is allowed to do
type UserRole string

const (
	RoleUser          UserRole = "user"
	RoleBusinessOwner UserRole = "business_owner"
)

// User represents a registered traveler or business owner
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name         string   `gorm:"not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"not null;default:'user';index" json:"role"`

	// Relationships
	Feedbacks         []Feedback    `gorm:"foreignKey:UserID" json:"feedbacks,omitempty"`
	Favorites         []Favorite    `gorm:"foreignKey:UserID" json:"favorites,omitempty"`
	OwnedDestinations []Destination `gorm:"foreignKey:BusinessOwnerID" json:"owned_destinations,omitempty"`
}
