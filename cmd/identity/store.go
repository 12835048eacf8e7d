package identity

import (
	"context"
	"strings"
)

// User is the stored security principal.
type User struct {
	ID           string
	Username     string
	PasswordHash string
}

// Store is the identity persistence boundary.
type Store interface {
	// GetByUsername loads a user by username. Returns ErrUserNotFound when
	// the username is not registered.
	GetByUsername(ctx context.Context, username string) (User, error)

	// UsernameExists reports whether a username is registered.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// UpdatePassword replaces the stored password hash for username.
	// Returns ErrUserNotFound when the username is not registered.
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

// NormalizeUsername trims surrounding whitespace. Usernames are stored
// case-sensitively, matching the persisted data.
func NormalizeUsername(s string) string {
	return strings.TrimSpace(s)
}
