package authapi

import (
	"os"
	"strconv"
	"strings"
)

// RefreshCookieName is the HTTP-only cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// Config controls auth API transport behavior.
type Config struct {
	// Production hardens cookie attributes: Secure on, SameSite=None for
	// the cross-site dashboard frontend. Development keeps Secure off and
	// SameSite=Lax.
	Production bool

	MaxBodyBytes int64
}

// LoadConfigFromEnv loads auth API config from environment variables.
func LoadConfigFromEnv() Config {
	cfg := Config{
		Production:   strings.EqualFold(strings.TrimSpace(os.Getenv("LEADBOARD_ENV")), "production"),
		MaxBodyBytes: 1 << 20,
	}

	if v := strings.TrimSpace(os.Getenv("LEADBOARD_MAX_BODY_BYTES")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}

	return cfg
}
