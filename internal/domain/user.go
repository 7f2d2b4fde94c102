package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Email is unique across all users.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Credential is the sign-in record kept alongside a User.
// Only a bcrypt hash of the password is ever stored.
type Credential struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
