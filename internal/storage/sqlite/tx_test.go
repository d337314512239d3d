package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/internal/storage"
)

func TestWithTx_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	store := NewFromDB(db)
	err = store.WithTx(context.Background(), func(tx storage.Repository) error {
		t.Fatal("fn must not run without a transaction")
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnStatementError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	store := NewFromDB(db)
	err = store.WithTx(context.Background(), func(tx storage.Repository) error {
		return tx.CreateUser(context.Background(), models.NewUser("erin", "erin@example.com", "hash"))
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_CommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	store := NewFromDB(db)
	err = store.WithTx(context.Background(), func(tx storage.Repository) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_NilDB(t *testing.T) {
	err := Migrate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db is nil")
}
