package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingengine/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, email, hashed_password, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, hashed_password, full_name, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, user.ID, user.Email, user.HashedPassword, user.FullName)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, hashed_password, full_name, created_at, updated_at
		FROM users
		WHERE id = $1`

	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, hashed_password, full_name, created_at, updated_at
		FROM users
		WHERE email = $1`

	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) UpdateFullName(ctx context.Context, id, fullName string) (*domain.User, error) {
	query := `
		UPDATE users
		SET    full_name  = $2,
		       updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, hashed_password, full_name, created_at, updated_at`

	return scanUser(r.pool.QueryRow(ctx, query, id, fullName))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET hashed_password = $2, updated_at = NOW() WHERE id = $1`,
		id, hashedPassword)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CreateResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), userID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	return nil
}

func (r *UserRepository) ClaimResetToken(ctx context.Context, tokenHash string) (*domain.PasswordResetToken, error) {
	// The UPDATE claims the token in one statement, so two concurrent resets
	// with the same link cannot both succeed.
	query := `
		UPDATE password_reset_tokens
		SET    used_at = NOW()
		WHERE  token_hash = $1
		  AND  used_at IS NULL
		  AND  expires_at > NOW()
		RETURNING id, user_id, token_hash, expires_at, used_at, created_at`

	var t domain.PasswordResetToken
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("claim reset token: %w", err)
	}
	return &t, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
