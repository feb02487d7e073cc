package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "DB_DSN", "DB_MAX_OPEN_CONNS", "DB_CONN_MAX_LIFETIME",
	"SESSION_SECRET", "LOG_LEVEL", "GIN_MODE", "SEED_DEMO_DATA",
}

// clearEnv unsets every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Port)
	require.False(t, cfg.UsesDatabase())
	require.True(t, cfg.UsesDefaultSecret())
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 25, cfg.MaxOpenConns)
	require.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	require.False(t, cfg.SeedDemoData)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DSN", "host=db user=auction dbname=auction")
	t.Setenv("DB_MAX_OPEN_CONNS", "5")
	t.Setenv("DB_CONN_MAX_LIFETIME", "1m")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SEED_DEMO_DATA", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Port)
	require.True(t, cfg.UsesDatabase())
	require.False(t, cfg.UsesDefaultSecret())
	require.Equal(t, 5, cfg.MaxOpenConns)
	require.Equal(t, time.Minute, cfg.ConnMaxLifetime)
	require.True(t, cfg.SeedDemoData)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=7000\nLOG_LEVEL=debug\n"), 0o600))

	cfg, err := Load(filepath.Join(dir, "missing.env"), envFile)
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.Port)
	require.Equal(t, "warn", cfg.LogLevel, "environment wins over the file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad_int", "DB_MAX_OPEN_CONNS", "many"},
		{"bad_duration", "DB_CONN_MAX_LIFETIME", "forever"},
		{"bad_bool", "SEED_DEMO_DATA", "perhaps"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.key)
		})
	}
}
