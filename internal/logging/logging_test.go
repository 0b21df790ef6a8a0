package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("visible", "user_id", 7)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"visible"`)
	assert.Contains(t, out, `"user_id":7`)
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	gl := NewGormLogger(newLogger(&buf, "debug", "text"), 50*time.Millisecond)
	fc := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), fc, nil)
	assert.Contains(t, buf.String(), "level=DEBUG")
	buf.Reset()

	gl.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	assert.Contains(t, buf.String(), "slow query")
	buf.Reset()

	gl.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Contains(t, buf.String(), "query error")
	buf.Reset()

	// Record-not-found is an expected outcome, not a query error.
	gl.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "query error")
}

func TestGormLoggerOmitsBoundValues(t *testing.T) {
	var buf bytes.Buffer
	gl := NewGormLogger(newLogger(&buf, "debug", "text"), 0)

	sql, vars := gl.ParamsFilter(context.Background(), "SELECT * FROM users WHERE auth_token = ?", "tok")
	assert.Equal(t, "SELECT * FROM users WHERE auth_token = ?", sql)
	assert.Empty(t, vars)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gl})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("CREATE TABLE users (id integer primary key, auth_token text)").Error)
	require.NoError(t, db.Exec("INSERT INTO users (auth_token) VALUES (?)", "secret-session-token").Error)

	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM users WHERE auth_token = ?", "secret-session-token").Scan(&count).Error)
	assert.Equal(t, int64(1), count)

	// A failing statement is logged at WARN, still without its values.
	assert.Error(t, db.Exec("INSERT INTO missing_table (auth_token) VALUES (?)", "secret-session-token").Error)

	out := buf.String()
	assert.Contains(t, out, "auth_token")
	assert.Contains(t, out, "query error")
	assert.NotContains(t, out, "secret-session-token")
}
