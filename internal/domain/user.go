package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("old password incorrect")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

type User struct {
	ID             string
	Email          string
	HashedPassword string
	FullName       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PasswordResetToken records a single-use reset capability. The signed token
// itself is never stored, only the SHA-256 of its token ID; UsedAt marks
// consumption so a reset link cannot be replayed.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
