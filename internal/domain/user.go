package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an API caller account. PasswordHash is a bcrypt digest, never the
// plaintext password.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// RefreshToken is an opaque, rotating refresh token persisted so it can be
// revoked ("blacklist-able" per §4.6) independently of the short-lived JWT
// access token it stands behind.
type RefreshToken struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
