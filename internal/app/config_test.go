package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/hrms/internal/auth"
)

func clearLegacyEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "JWT_SECRET", "JWT_EXPIRES_IN", "DATABASE_URL"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearLegacyEnv(t)

	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, []string{"https://hr.example.com", "https://admin.example.com"}, cfg.Server.CORS.AllowedOrigins)
	require.Equal(t, 120, cfg.Server.RateLimit.RequestsPerMinute)
	require.Equal(t, 20, cfg.Server.RateLimit.Burst)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)
	require.Equal(t, "require", cfg.Database.Postgres.Options["sslmode"])

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "acme-hr", cfg.Auth.JWT.Issuer)
	require.Equal(t, 12*time.Hour, cfg.Auth.JWT.TTL)

	require.Equal(t, 50, cfg.Audit.DefaultLimit)
	require.Equal(t, 500, cfg.Audit.MaxLimit)
	require.Equal(t, "@every 5m", cfg.Maintenance.MetricsSchedule)

	// Defaults survive for keys the file omits.
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestLoadConfigDefaults(t *testing.T) {
	clearLegacyEnv(t)

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 5000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, []string{"*"}, cfg.Server.CORS.AllowedOrigins)
	require.Equal(t, 300, cfg.Server.RateLimit.RequestsPerMinute)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/hrms.sqlite", cfg.Database.Path)
	require.Equal(t, "hrms", cfg.Auth.JWT.Issuer)
	require.Equal(t, 8*time.Hour, cfg.Auth.JWT.TTL)
	require.Empty(t, cfg.Auth.JWT.Secret)
	require.Equal(t, 100, cfg.Audit.DefaultLimit)
	require.Equal(t, 1000, cfg.Audit.MaxLimit)
	require.True(t, cfg.Monitoring.Health.Enabled)
	require.Equal(t, "@every 1m", cfg.Maintenance.MetricsSchedule)
	require.Zero(t, cfg.Maintenance.AuditRetentionDays)
}

func TestLoadConfigPrefixedEnv(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("HRMS_SERVER_PORT", "7070")
	t.Setenv("HRMS_AUTH_JWT_TTL", "1h")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, time.Hour, cfg.Auth.JWT.TTL)
}

func TestLoadConfigLegacyEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("JWT_EXPIRES_IN", "2d")
	t.Setenv("DATABASE_URL", "postgres://hr:pw@db:5432/hrms?sslmode=disable")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "legacy-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 48*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "postgres://hr:pw@db:5432/hrms?sslmode=disable", cfg.Database.DSN)
}

func TestLoadConfigRejectsBadLegacyPort(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("PORT", "eighty")

	_, err := LoadConfig(t.TempDir())
	require.ErrorContains(t, err, "invalid PORT")
}

func TestParseLegacyDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"8h":   8 * time.Hour,
		"1d":   24 * time.Hour,
		"3600": time.Hour,
		"90m":  90 * time.Minute,
	}
	for input, want := range cases {
		got, err := parseLegacyDuration(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}

	_, err := parseLegacyDuration("soon")
	require.Error(t, err)
}

func TestAuthConfigAdapters(t *testing.T) {
	cfg := Config{
		Auth: AuthConfig{
			JWT: JWTSettings{
				Secret: "secret",
				Issuer: "issuer",
				TTL:    30 * time.Minute,
			},
			PasswordCost: 4,
		},
		Audit: AuditConfig{DefaultLimit: 10, MaxLimit: 20},
	}

	require.Equal(t, auth.JWTConfig{
		Secret:         "secret",
		Issuer:         "issuer",
		AccessTokenTTL: 30 * time.Minute,
	}, cfg.Auth.JWTServiceConfig())
	require.Len(t, cfg.Auth.AuthServiceOptions(), 1)
	require.Len(t, cfg.Audit.AuditServiceOptions(), 1)
}

func TestAuthConfigAdaptersFallback(t *testing.T) {
	var cfg Config

	require.Equal(t, auth.DefaultAccessTokenTTL, cfg.Auth.JWTServiceConfig().AccessTokenTTL)
	require.Empty(t, cfg.Auth.AuthServiceOptions())
	require.Empty(t, cfg.Audit.AuditServiceOptions())
}

func TestDatabaseSettings(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:       "Postgres",
		MaxOpenConns: 10,
		Postgres: DBAuthConfig{
			Host:     "db",
			Port:     5432,
			Database: "hrms",
			Username: "hr",
			Password: "pw",
		},
		MySQL: DBAuthConfig{Host: "ignored"},
	}

	settings := cfg.DatabaseSettings()
	require.Equal(t, "postgres", settings.Driver)
	require.Equal(t, "db", settings.Host)
	require.Equal(t, "hrms", settings.Name)
	require.Equal(t, "hr", settings.User)
	require.Equal(t, 10, settings.MaxOpenConns)

	sqlite := DatabaseConfig{Driver: "sqlite", Path: "./x.sqlite"}.DatabaseSettings()
	require.Equal(t, "./x.sqlite", sqlite.Path)
	require.Empty(t, sqlite.Host)
}
