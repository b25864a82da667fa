package usecase

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"bookingengine/internal/domain"
	"bookingengine/internal/email"
	"bookingengine/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Token purpose claim values. The bearer middleware only accepts "access",
// so a reset link can never be replayed as a login token.
const (
	PurposeAccess = "access"
	PurposeReset  = "password_reset"
)

const resetTokenTTL = 60 * time.Minute

type AuthUsecase struct {
	users         repository.UserRepository
	email         email.Sender
	jwtKey        []byte
	jwtTTL        time.Duration
	resetLinkBase string
}

func NewAuthUsecase(users repository.UserRepository, emailSender email.Sender, jwtKey []byte, jwtTTL time.Duration, resetLinkBase string) *AuthUsecase {
	return &AuthUsecase{
		users:         users,
		email:         emailSender,
		jwtKey:        jwtKey,
		jwtTTL:        jwtTTL,
		resetLinkBase: resetLinkBase,
	}
}

// Register hashes the password and stores a new user. The email pre-check
// gives a friendly error on the common path; the unique index on users.email
// closes the race when two registrations arrive at once.
func (u *AuthUsecase) Register(ctx context.Context, emailAddr, password, fullName string) (*domain.User, error) {
	_, err := u.users.FindByEmail(ctx, emailAddr)
	if err == nil {
		return nil, domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Create(ctx, &domain.User{
		ID:             uuid.NewString(),
		Email:          emailAddr,
		HashedPassword: string(hashed),
		FullName:       fullName,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Login verifies the credentials and returns a signed access token. Unknown
// email and wrong password are indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := u.signToken(jwt.MapClaims{
		"sub":     user.ID,
		"purpose": PurposeAccess,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(u.jwtTTL).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// RecoverPassword issues a single-use reset token and emails the reset link.
// The email is sent synchronously; a delivery failure fails the request.
func (u *AuthUsecase) RecoverPassword(ctx context.Context, emailAddr string) error {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	tokenID := uuid.NewString()
	expiresAt := time.Now().Add(resetTokenTTL)

	token, err := u.signToken(jwt.MapClaims{
		"sub":     user.ID,
		"jti":     tokenID,
		"purpose": PurposeReset,
		"iat":     time.Now().Unix(),
		"exp":     expiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}

	if err := u.users.CreateResetToken(ctx, user.ID, hashTokenID(tokenID), expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := u.resetLinkBase + "/reset-password?token=" + token
	subject := "Booking Engine - Password Recovery"
	body := fmt.Sprintf(`<p>Click the link below to reset your password (expires in 60 minutes):</p><p><a href="%s">%s</a></p>`, link, link)
	if err := u.email.Send(ctx, emailAddr, subject, body); err != nil {
		return fmt.Errorf("send recovery email: %w", err)
	}
	return nil
}

// ResetPassword verifies a reset token, consumes it, and overwrites the
// user's password hash. Every verification failure collapses into
// ErrTokenInvalid.
func (u *AuthUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	claims, err := u.parseToken(rawToken)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	purpose, _ := claims["purpose"].(string)
	userID, _ := claims["sub"].(string)
	tokenID, _ := claims["jti"].(string)
	if purpose != PurposeReset || userID == "" || tokenID == "" {
		return domain.ErrTokenInvalid
	}

	claimed, err := u.users.ClaimResetToken(ctx, hashTokenID(tokenID))
	if err != nil {
		return domain.ErrTokenInvalid
	}
	if claimed.UserID != userID {
		return domain.ErrTokenInvalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := u.users.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (u *AuthUsecase) signToken(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.jwtKey)
}

func (u *AuthUsecase) parseToken(rawToken string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return u.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func hashTokenID(tokenID string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(tokenID)))
}
