package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/sharepay/internal/models"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// UserStorage defines the interface for user persistence operations.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
		cost:    bcrypt.DefaultCost,
	}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	a.cost = cost
	return a
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < MinPasswordLength {
		return models.ErrWeakPassword
	}
	return nil
}

// HashCredential hashes a password with bcrypt.
func (a *PasswordAuthenticator) HashCredential(credential string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, email, credential string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, models.ErrMissingField
	}

	// Validate password strength
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	hashed, err := a.HashCredential(credential)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(username, email, hashed)

	// Uniqueness of username and email is enforced by the store
	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate verifies the username and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

// ChangeCredential replaces the password of userID when current matches the
// stored hash.
func (a *PasswordAuthenticator) ChangeCredential(ctx context.Context, userID, current, next string) error {
	if err := a.ValidateCredential(next); err != nil {
		return err
	}

	user, err := a.storage.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return models.ErrInvalidCredentials
	}

	hashed, err := a.HashCredential(next)
	if err != nil {
		return err
	}

	if err := a.storage.UpdatePasswordHash(ctx, userID, hashed); err != nil {
		return err
	}

	slog.Info("Password changed", "user_id", userID)
	return nil
}
