package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/sharepay/internal/config"
)

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "sharepay.db")
	t.Setenv("SHAREPAY_DB_PATH", dbPath)
	t.Setenv("LOG_LEVEL", "error")

	rootCmd.SetArgs([]string{"migrate"})
	require.NoError(t, rootCmd.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestServeRequiresSecret(t *testing.T) {
	t.Setenv("SHAREPAY_DB_PATH", filepath.Join(t.TempDir(), "sharepay.db"))
	t.Setenv("SHAREPAY_JWT_SECRET", "")
	t.Setenv("LOG_LEVEL", "error")

	rootCmd.SetArgs([]string{"serve"})
	assert.ErrorIs(t, rootCmd.Execute(), config.ErrMissingJWTSecret)
}
