package session

import (
	"os"
	"strings"
	"time"
)

// Config defines all runtime configuration for the session subsystem.
//
// Signing keys and TTLs are read once at process start and passed by value
// into the Issuer and Service constructors; nothing in this package reads
// the environment at call time.
type Config struct {
	// AccessTokenKey is the HS256 signing secret for access tokens.
	AccessTokenKey []byte

	// AccessTokenAge defines the lifetime of access tokens.
	AccessTokenAge time.Duration

	// RefreshTokenKey is the HS256 signing secret for refresh tokens.
	RefreshTokenKey []byte

	// RefreshTokenAge defines the lifetime of refresh tokens and the
	// expiry window of their store records.
	RefreshTokenAge time.Duration

	// SweepInterval enables the optional background sweeper when positive.
	// The lazy, request-triggered sweep runs regardless.
	SweepInterval time.Duration
}

// DefaultConfig returns defaults suitable for development; signing keys
// must still be supplied via environment variables.
func DefaultConfig() Config {
	return Config{
		AccessTokenAge:  30 * time.Minute,
		RefreshTokenAge: 2 * 24 * time.Hour,
		SweepInterval:   0,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Required:
//   - ACCESS_TOKEN_KEY
//   - REFRESH_TOKEN_KEY
//
// Optional (durations must be valid Go duration strings):
//   - ACCESS_TOKEN_AGE
//   - REFRESH_TOKEN_AGE
//   - REFRESH_SWEEP_INTERVAL
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	key := strings.TrimSpace(os.Getenv("ACCESS_TOKEN_KEY"))
	if key == "" {
		return Config{}, ErrConfig
	}
	cfg.AccessTokenKey = []byte(key)

	key = strings.TrimSpace(os.Getenv("REFRESH_TOKEN_KEY"))
	if key == "" {
		return Config{}, ErrConfig
	}
	cfg.RefreshTokenKey = []byte(key)

	if v := os.Getenv("ACCESS_TOKEN_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTokenAge = d
	}

	if v := os.Getenv("REFRESH_TOKEN_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RefreshTokenAge = d
	}

	if v := os.Getenv("REFRESH_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.SweepInterval = d
	}

	return cfg, nil
}
