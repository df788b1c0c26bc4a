package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "ENV", "LOG_LEVEL", "DB_DRIVER", "DB_DSN", "HTTP_ADDR", "CORS_ORIGINS",
		"HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/scheduler")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("HTTP_READ_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://example.com")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 3, cfg.HTTP.RateLimitBurst)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_SQLiteDefaultDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "file:slots.db", cfg.DBDSN)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
env: production
db_driver: sqlite
db_dsn: "file:test.db"
http:
  addr: ":9000"
  shutdown_timeout: 3s
  rate_limit_rps: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "file:test.db", cfg.DBDSN)
	assert.Equal(t, ":9100", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.InDelta(t, 2.5, cfg.HTTP.RateLimitRPS, 0.0001)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad driver", "DB_DRIVER", "mysql"},
		{"bad duration", "HTTP_WRITE_TIMEOUT", "soon"},
		{"bad rps", "RATE_LIMIT_RPS", "fast"},
		{"bad burst", "RATE_LIMIT_BURST", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DB_DSN", "postgres://localhost/scheduler")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
