// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/sharepay/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var (
	_ storage.Store      = (*SQLiteStore)(nil)
	_ storage.Repository = (*queries)(nil)
)

// dsnParams enable foreign keys, wait on a locked database instead of
// failing, and make every transaction take the write lock at BEGIN so that
// read-check-write sequences inside WithTx are serialized.
const dsnParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"

// dbtx is the subset of *sql.DB and *sql.Tx the queries need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries implements storage.Repository against either the database or an
// open transaction.
type queries struct {
	db dbtx
}

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	*queries
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?"+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewFromDB(db), nil
}

// NewFromDB wraps an already opened and migrated database.
func NewFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		queries: &queries{db: db},
		db:      db,
	}
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a transaction and commits if fn succeeds.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx storage.Repository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&queries{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// uniqueViolation reports whether err is a UNIQUE constraint failure on the
// given "table.column".
func uniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
