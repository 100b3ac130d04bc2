package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AccessToken is an opaque bearer credential with a fixed-TTL expiration.
// One row is created per login; tokens are never rotated or revoked and
// expire lazily (checked at lookup time).
type AccessToken struct {
	Token      string    `json:"access_token" db:"token"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Expiration time.Time `json:"expiration" db:"expiration"`
}

// Valid reports whether the token is still usable at the given instant.
// A token whose expiration equals now is already expired.
func (t *AccessToken) Valid(now time.Time) bool {
	return t.Expiration.After(now)
}
