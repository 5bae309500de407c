package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"Vibezone/internal/core/resilience"
	"Vibezone/internal/core/statuscache"
	"Vibezone/internal/core/videos"
)

// Config validation errors
var (
	// ErrMissingDatabaseURL is returned when DatabaseURL is empty
	ErrMissingDatabaseURL = errors.New("DatabaseURL is required")
	// ErrInvalidCallTimeout is returned when CallTimeout is not positive
	ErrInvalidCallTimeout = errors.New("CallTimeout must be positive")
	// ErrInvalidCallRetries is returned when CallRetries is negative
	ErrInvalidCallRetries = errors.New("CallRetries cannot be negative")
	// ErrInvalidStatusTTL is returned when StatusTTL is not positive
	ErrInvalidStatusTTL = errors.New("StatusTTL must be positive")
	// ErrInvalidStatusCacheSize is returned when StatusCacheSize is not positive
	ErrInvalidStatusCacheSize = errors.New("StatusCacheSize must be positive")
	// ErrInvalidAuthorConcurrency is returned when AuthorConcurrency is not positive
	ErrInvalidAuthorConcurrency = errors.New("AuthorConcurrency must be positive")
	// ErrInvalidPageLimitMax is returned when PageLimitMax is not positive
	ErrInvalidPageLimitMax = errors.New("PageLimitMax must be positive")
	// ErrInvalidRateLimit is returned when RateLimitPerMinute is not positive
	ErrInvalidRateLimit = errors.New("RateLimitPerMinute must be positive")
)

// Config holds the runtime configuration of the AppView server.
type Config struct {
	// DatabaseURL is the PostgreSQL DSN of the record store.
	DatabaseURL string

	// Port the HTTP server listens on.
	Port string

	// CallTimeout bounds every individual remote call attempt.
	CallTimeout time.Duration

	// CallRetries is the number of extra attempts after the first one.
	CallRetries int

	// CallBackoff is the delay before the first retry. Later delays grow by 1.5x.
	CallBackoff time.Duration

	// StatusTTL is how long a cached like/subscription status is trusted.
	StatusTTL time.Duration

	// StatusCacheSize caps the number of cached statuses.
	StatusCacheSize int

	// AuthorConcurrency caps parallel profile lookups per feed page.
	AuthorConcurrency int

	// PageLimitMax is the largest page size a client may request.
	PageLimitMax int

	// RealtimeURL is the websocket URL of the store's change feed.
	// Empty disables realtime invalidation.
	RealtimeURL string

	// SessionSecret signs the session cookie.
	SessionSecret string

	// RateLimitPerMinute is the per-client request budget.
	RateLimitPerMinute int

	// AllowedOrigins lists the web client origins permitted by CORS.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Port:               "8081",
		CallTimeout:        resilience.DefaultTimeout,
		CallRetries:        resilience.DefaultRetries,
		CallBackoff:        resilience.DefaultBackoff,
		StatusTTL:          statuscache.DefaultFreshness,
		StatusCacheSize:    statuscache.DefaultMaxEntries,
		AuthorConcurrency:  videos.DefaultAuthorConcurrency,
		PageLimitMax:       videos.DefaultMaxLimit,
		RateLimitPerMinute: 100,
		AllowedOrigins:     []string{"http://localhost:3000"},
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidCallTimeout, c.CallTimeout)
	}
	if c.CallRetries < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCallRetries, c.CallRetries)
	}
	if c.StatusTTL <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidStatusTTL, c.StatusTTL)
	}
	if c.StatusCacheSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidStatusCacheSize, c.StatusCacheSize)
	}
	if c.AuthorConcurrency <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAuthorConcurrency, c.AuthorConcurrency)
	}
	if c.PageLimitMax <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageLimitMax, c.PageLimitMax)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRateLimit, c.RateLimitPerMinute)
	}
	return nil
}

// Policy returns the remote call policy described by the config.
func (c Config) Policy() resilience.Policy {
	p := resilience.DefaultPolicy()
	p.Timeout = c.CallTimeout
	p.Retries = c.CallRetries
	p.Backoff = c.CallBackoff
	return p
}

// FromEnv creates a Config from environment variables.
// Uses defaults for any missing environment variables.
//
// Environment variables:
//   - DATABASE_URL: PostgreSQL DSN (required)
//   - APPVIEW_PORT: HTTP listen port (default: 8081)
//   - VIBEZONE_CALL_TIMEOUT_MS: per-attempt timeout (default: 10000)
//   - VIBEZONE_CALL_RETRIES: extra attempts after the first (default: 2)
//   - VIBEZONE_CALL_BACKOFF_MS: first retry delay (default: 1000)
//   - VIBEZONE_STATUS_TTL_SECONDS: status freshness window (default: 300)
//   - VIBEZONE_STATUS_CACHE_SIZE: max cached statuses (default: 10000)
//   - VIBEZONE_AUTHOR_CONCURRENCY: parallel profile lookups (default: 8)
//   - VIBEZONE_PAGE_LIMIT_MAX: max page size (default: 50)
//   - VIBEZONE_REALTIME_URL: change feed websocket URL (default: "" disabled)
//   - SESSION_SECRET: session cookie signing key
//   - RATE_LIMIT_PER_MINUTE: per-client request budget (default: 100)
//   - VIBEZONE_ALLOWED_ORIGINS: comma-separated CORS origins (default: http://localhost:3000)
func FromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("APPVIEW_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("VIBEZONE_REALTIME_URL"); v != "" {
		cfg.RealtimeURL = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("VIBEZONE_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	cfg.CallTimeout = envDuration("VIBEZONE_CALL_TIMEOUT_MS", time.Millisecond, cfg.CallTimeout)
	cfg.CallBackoff = envDuration("VIBEZONE_CALL_BACKOFF_MS", time.Millisecond, cfg.CallBackoff)
	cfg.StatusTTL = envDuration("VIBEZONE_STATUS_TTL_SECONDS", time.Second, cfg.StatusTTL)

	if v := os.Getenv("VIBEZONE_CALL_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CallRetries = n
		} else {
			slog.Warn("[CONFIG] invalid VIBEZONE_CALL_RETRIES value, using default",
				"value", v,
				"default", cfg.CallRetries,
				"error", err,
			)
		}
	}

	cfg.StatusCacheSize = envPositiveInt("VIBEZONE_STATUS_CACHE_SIZE", cfg.StatusCacheSize)
	cfg.AuthorConcurrency = envPositiveInt("VIBEZONE_AUTHOR_CONCURRENCY", cfg.AuthorConcurrency)
	cfg.PageLimitMax = envPositiveInt("VIBEZONE_PAGE_LIMIT_MAX", cfg.PageLimitMax)
	cfg.RateLimitPerMinute = envPositiveInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)

	return cfg
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envPositiveInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("[CONFIG] invalid "+key+" value, using default",
			"value", v,
			"default", def,
			"error", err,
		)
		return def
	}
	return n
}

func envDuration(key string, unit, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("[CONFIG] invalid "+key+" value, using default",
			"value", v,
			"default", def.String(),
			"error", err,
		)
		return def
	}
	return time.Duration(n) * unit
}
