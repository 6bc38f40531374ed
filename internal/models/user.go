package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole reports whether role is one of the supported roles.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `json:"id" db:"id"`                           // Primary key
	Username     string    `json:"username" db:"username"`               // Unique username
	PasswordHash string    `json:"-" db:"password_hash"`                 // Hashed password, never serialized
	Role         string    `json:"role" db:"role"`                       // Role: user or admin
	AvatarURL    *string   `json:"avatar_url" db:"avatar_url"`           // Public URL of the avatar image
	Bio          *string   `json:"bio" db:"bio"`                         // Display-only biography
	InstagramURL *string   `json:"instagram_url" db:"instagram_url"`     // Display-only Instagram link
	CreatedAt    time.Time `json:"created_at" db:"created_at"`           // Creation timestamp
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`           // Last update timestamp
}
