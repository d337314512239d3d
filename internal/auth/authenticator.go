package auth

import (
	"context"

	"github.com/mmynk/sharepay/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given handle, contact
	// address and credential. Returns the created user or an error if
	// registration fails.
	Register(ctx context.Context, username, email, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ChangeCredential replaces the credential of a logged-in user after
	// checking the current one.
	ChangeCredential(ctx context.Context, userID, current, next string) error

	// ValidateCredential checks if the credential meets the implementation's requirements.
	// For passwords: check length, complexity, etc.
	// For other methods: validate format, etc.
	ValidateCredential(credential string) error

	// HashCredential returns the irreversible form of a credential that is
	// stored on the user.
	HashCredential(credential string) (string, error)
}
