package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{
		"DATABASE_URL": "postgres://localhost/agririsk",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 20, cfg.DBMaxOpenConns)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, uint32(64*1024), cfg.Argon2MemoryKiB)
	assert.False(t, cfg.StorageEnabled())
}

func TestFromViperOverrides(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{
		"DATABASE_DRIVER":      "SQLite",
		"DATABASE_URL":         "file:agririsk.db",
		"CORS_ALLOWED_ORIGINS": "http://localhost:5173, https://app.example.com,",
		"MINIO_ENDPOINT":       "localhost:9000",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.StorageEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{
			name:    "missing database url",
			values:  map[string]any{},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "unknown driver",
			values:  map[string]any{"DATABASE_DRIVER": "oracle", "DATABASE_URL": "x"},
			wantErr: "unsupported DATABASE_DRIVER",
		},
		{
			name:    "zero argon2 memory",
			values:  map[string]any{"DATABASE_URL": "x", "ARGON2_MEMORY_KIB": 0},
			wantErr: "argon2 parameters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newTestViper(tt.values))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
