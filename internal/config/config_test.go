package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.DatabaseURL = "postgres://localhost/vibezone"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing database url", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: ErrMissingDatabaseURL},
		{name: "zero timeout", mutate: func(c *Config) { c.CallTimeout = 0 }, wantErr: ErrInvalidCallTimeout},
		{name: "negative retries", mutate: func(c *Config) { c.CallRetries = -1 }, wantErr: ErrInvalidCallRetries},
		{name: "zero retries allowed", mutate: func(c *Config) { c.CallRetries = 0 }},
		{name: "zero status ttl", mutate: func(c *Config) { c.StatusTTL = 0 }, wantErr: ErrInvalidStatusTTL},
		{name: "zero cache size", mutate: func(c *Config) { c.StatusCacheSize = 0 }, wantErr: ErrInvalidStatusCacheSize},
		{name: "zero author concurrency", mutate: func(c *Config) { c.AuthorConcurrency = 0 }, wantErr: ErrInvalidAuthorConcurrency},
		{name: "zero page limit", mutate: func(c *Config) { c.PageLimitMax = 0 }, wantErr: ErrInvalidPageLimitMax},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitPerMinute = 0 }, wantErr: ErrInvalidRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.CallTimeout)
	assert.Equal(t, 2, cfg.CallRetries)
	assert.Equal(t, time.Second, cfg.CallBackoff)
	assert.Equal(t, 5*time.Minute, cfg.StatusTTL)
	assert.Equal(t, 50, cfg.PageLimitMax)
	assert.Empty(t, cfg.RealtimeURL)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/vibezone")
	t.Setenv("APPVIEW_PORT", "9000")
	t.Setenv("VIBEZONE_CALL_TIMEOUT_MS", "2500")
	t.Setenv("VIBEZONE_CALL_RETRIES", "0")
	t.Setenv("VIBEZONE_CALL_BACKOFF_MS", "200")
	t.Setenv("VIBEZONE_STATUS_TTL_SECONDS", "60")
	t.Setenv("VIBEZONE_AUTHOR_CONCURRENCY", "4")
	t.Setenv("VIBEZONE_REALTIME_URL", "ws://localhost:4000/changes")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "postgres://db/vibezone", cfg.DatabaseURL)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2500*time.Millisecond, cfg.CallTimeout)
	assert.Equal(t, 0, cfg.CallRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.CallBackoff)
	assert.Equal(t, time.Minute, cfg.StatusTTL)
	assert.Equal(t, 4, cfg.AuthorConcurrency)
	assert.Equal(t, "ws://localhost:4000/changes", cfg.RealtimeURL)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)

	p := cfg.Policy()
	assert.Equal(t, 2500*time.Millisecond, p.Timeout)
	assert.Equal(t, 0, p.Retries)
	assert.True(t, p.Idempotent)
}

func TestFromEnv_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("VIBEZONE_CALL_TIMEOUT_MS", "soon")
	t.Setenv("VIBEZONE_CALL_RETRIES", "-3")
	t.Setenv("VIBEZONE_STATUS_CACHE_SIZE", "0")
	t.Setenv("VIBEZONE_PAGE_LIMIT_MAX", "many")

	cfg := FromEnv()
	def := DefaultConfig()

	assert.Equal(t, def.CallTimeout, cfg.CallTimeout)
	assert.Equal(t, def.CallRetries, cfg.CallRetries)
	assert.Equal(t, def.StatusCacheSize, cfg.StatusCacheSize)
	assert.Equal(t, def.PageLimitMax, cfg.PageLimitMax)
}

func TestFromEnv_AllowedOrigins(t *testing.T) {
	t.Setenv("VIBEZONE_ALLOWED_ORIGINS", "https://vibezone.app, https://staging.vibezone.app,,")

	cfg := FromEnv()

	assert.Equal(t, []string{"https://vibezone.app", "https://staging.vibezone.app"}, cfg.AllowedOrigins)
}
