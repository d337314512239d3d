package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharepay/internal/models"
)

const userColumns = "id, username, email, password_hash, created_at, updated_at"

// CreateUser inserts a new user into the database.
func (q *queries) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	if user.UpdatedAt == 0 {
		user.UpdatedAt = user.CreatedAt
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	switch {
	case uniqueViolation(err, "users.username"):
		return models.ErrUsernameTaken
	case uniqueViolation(err, "users.email"):
		return models.ErrEmailTaken
	case err != nil:
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (q *queries) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return q.getUser(ctx, "id", id)
}

// GetUserByUsername retrieves a user by their username.
func (q *queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return q.getUser(ctx, "username", username)
}

// GetUserByEmail retrieves a user by their email address.
func (q *queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return q.getUser(ctx, "email", email)
}

// getUser looks a user up by one of its unique columns.
func (q *queries) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`,
		value,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return user, nil
}

// UpdatePasswordHash replaces a user's credential hash.
func (q *queries) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		hash, time.Now().Unix(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return expectAffected(res, models.ErrUserNotFound)
}

// expectAffected returns notFound when res touched no rows.
func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
