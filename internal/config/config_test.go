package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "backoffice-service", cfg.App.Name)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	require.Equal(t, int32(10), cfg.Postgres.MaxConns)
	require.True(t, cfg.Postgres.RunMigrations)
	require.Equal(t, "tmp", cfg.Reports.InputDir)
	require.Equal(t, "out", cfg.Reports.OutputDir)
	require.Equal(t, 30*time.Second, cfg.Reports.CacheTTL())
	require.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("REPORTS_INPUT_DIR", "/data/in")
	t.Setenv("REPORTS_OUTPUT_DIR", "/data/out")
	t.Setenv("TICKET_CACHE_TTL_SECONDS", "0")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
	require.False(t, cfg.Postgres.RunMigrations)
	require.Equal(t, "/data/in", cfg.Reports.InputDir)
	require.Equal(t, "/data/out", cfg.Reports.OutputDir)
	require.Equal(t, time.Duration(0), cfg.Reports.CacheTTL())
	require.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}

func TestNumericFallbacks(t *testing.T) {
	t.Setenv("POSTGRES_MAX_CONNS", "garbage")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "garbage")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, int32(10), cfg.Postgres.MaxConns)
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}
