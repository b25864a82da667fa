package repository

import (
	"context"
	"time"

	"bookingengine/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateFullName(ctx context.Context, id, fullName string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error

	CreateResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// ClaimResetToken atomically marks an unused, unexpired token as consumed.
	ClaimResetToken(ctx context.Context, tokenHash string) (*domain.PasswordResetToken, error)
}
