package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/catalog")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Protocol)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, int32(2), cfg.DBMinConns)
	assert.Equal(t, 30*time.Minute, cfg.DBMaxConnLifetime)
	assert.Equal(t, 5*time.Minute, cfg.DBMaxConnIdleTime)
	assert.Equal(t, 30*time.Second, cfg.DBHealthCheckPeriod)
	assert.Equal(t, "application/json", cfg.ContentType)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadReadsPoolTuning(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MAX_CONN_LIFETIME", "1h")
	t.Setenv("DB_MAX_CONN_IDLE_TIME", "90s")
	t.Setenv("DB_HEALTH_CHECK_PERIOD", "15s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, time.Hour, cfg.DBMaxConnLifetime)
	assert.Equal(t, 90*time.Second, cfg.DBMaxConnIdleTime)
	assert.Equal(t, 15*time.Second, cfg.DBHealthCheckPeriod)
}

func TestLoadIgnoresMalformedDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_MAX_CONN_LIFETIME", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.DBMaxConnLifetime)
}

func TestValidateRejectsMissingSecrets(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		message string
	}{
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"empty port", func(c *Config) { c.Port = "" }, "PORT"},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 3 }, "BCRYPT_COST"},
		{"bcrypt cost too high", func(c *Config) { c.BcryptCost = 32 }, "BCRYPT_COST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				JWTSecret:   "secret",
				DatabaseURL: "postgres://localhost/catalog",
				Port:        "3000",
				ContentType: "application/json",
				BcryptCost:  10,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestBaseURL(t *testing.T) {
	cfg := &Config{Protocol: "http", Host: "127.0.0.1", Port: "3000"}
	assert.Equal(t, "http://127.0.0.1:3000", cfg.BaseURL())
}
