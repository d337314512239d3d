package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique handle used to log in and to name fellow members.
	Username string

	// Email is the user's unique contact address.
	Email string

	// PasswordHash is the bcrypt hash of the user's password. The plain
	// password is never stored.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last credential change.
	UpdatedAt int64
}

// NewUser creates a user with the given credentials hash and fresh timestamps.
// The ID is assigned by the store.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
