package app

import (
	"fmt"

	"leadboard/cmd/internal/auth/session"
)

// minKeyBytes is the minimum signing-key length under the strong-keys
// policy. HMAC-SHA256 keys shorter than the hash size weaken the MAC.
const minKeyBytes = 32

// ValidateSecurityConfig enforces the signing-key policy at startup.
// Fail-fast: a production deployment must never come up with weak keys.
func ValidateSecurityConfig(cfg Config, sessCfg session.Config) error {
	if !cfg.RequireStrongKeys {
		return nil
	}

	if len(sessCfg.AccessTokenKey) < minKeyBytes {
		return fmt.Errorf("security policy: ACCESS_TOKEN_KEY is shorter than %d bytes", minKeyBytes)
	}
	if len(sessCfg.RefreshTokenKey) < minKeyBytes {
		return fmt.Errorf("security policy: REFRESH_TOKEN_KEY is shorter than %d bytes", minKeyBytes)
	}

	return nil
}
