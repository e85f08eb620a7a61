// Package service provides business logic for authentication, mood entries,
// analytics and the AI companion, delegating persistence to repository
// interfaces.
package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/moodkeeper/MoodKeeper/internal/models"
)

// Sentinel auth errors, mapped to the provider's {code, message} shape at
// the HTTP boundary.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrNotConfirmed    = errors.New("user not confirmed")
	ErrCodeMismatch    = errors.New("confirmation code mismatch")
	ErrAlreadySignedUp = errors.New("user already confirmed")
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given key exists.
	UserExists(ctx context.Context, userKey string) (bool, error)
	// RegisterUser creates an unconfirmed user with a pending code.
	RegisterUser(ctx context.Context, userKey, email, code string) error
	// ConfirmUser marks the user confirmed when the code matches.
	ConfirmUser(ctx context.Context, userKey, code string) (bool, error)
	// IsConfirmed reports whether the user completed confirmation.
	IsConfirmed(ctx context.Context, userKey string) (bool, error)
	// ResetCode stores a fresh confirmation code.
	ResetCode(ctx context.Context, userKey, code string) error
}

// AuthService implements the signup/confirm/login lifecycle.
type AuthService struct {
	repo AuthRepository
}

// NewAuthService constructs an AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// newConfirmationCode returns a random 6-digit code.
func newConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SignUp registers the email and returns the issued confirmation code.
// A confirmed account cannot be re-registered.
func (s *AuthService) SignUp(ctx context.Context, email string) (string, error) {
	userKey := models.UserKey(email)

	exists, err := s.repo.UserExists(ctx, userKey)
	if err != nil {
		return "", err
	}
	if exists {
		confirmed, err := s.repo.IsConfirmed(ctx, userKey)
		if err != nil {
			return "", err
		}
		if confirmed {
			return "", ErrUserExists
		}
	}

	code, err := newConfirmationCode()
	if err != nil {
		return "", err
	}
	if err := s.repo.RegisterUser(ctx, userKey, email, code); err != nil {
		return "", err
	}
	return code, nil
}

// Confirm submits a confirmation code for the email.
func (s *AuthService) Confirm(ctx context.Context, email, code string) error {
	ok, err := s.repo.ConfirmUser(ctx, models.UserKey(email), code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCodeMismatch
	}
	return nil
}

// ResendCode issues a fresh confirmation code for an unconfirmed account.
func (s *AuthService) ResendCode(ctx context.Context, email string) (string, error) {
	userKey := models.UserKey(email)

	confirmed, err := s.repo.IsConfirmed(ctx, userKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	if confirmed {
		return "", ErrAlreadySignedUp
	}

	code, err := newConfirmationCode()
	if err != nil {
		return "", err
	}
	if err := s.repo.ResetCode(ctx, userKey, code); err != nil {
		return "", err
	}
	return code, nil
}

// Login checks that the account exists and is confirmed.
func (s *AuthService) Login(ctx context.Context, email string) error {
	confirmed, err := s.repo.IsConfirmed(ctx, models.UserKey(email))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	return nil
}
