// Package testutil holds helpers shared by package tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"agririsk-back/internal/config"
	"agririsk-back/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDB creates a migrated in-memory SQLite database for testing.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DriverSQLite, ":memory:", DiscardLogger())
	require.NoError(t, err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.MigrateDB(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
