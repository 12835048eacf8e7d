package session

import (
	"context"
	"time"
)

// Record mirrors the authentications row persisted per refresh token.
//
// The token value itself is the primary key; presence of a record is the
// sole authority for refresh-token validity. Records are never mutated in
// place: the lifecycle is create, read, delete.
type Record struct {
	Token     string
	ExpiresAt time.Time
}

// Store abstracts persistence for refresh-token state.
//
// Each operation is a single linearizable insert, select, or delete on the
// token primary key; implementations need no transactions spanning calls.
// Delete and DeleteExpired are idempotent so concurrent sweeps and revokes
// race harmlessly.
type Store interface {
	// Add inserts a record with expiry now+ttl.
	Add(ctx context.Context, token string, ttl time.Duration) error

	// Exists reports whether a record for this exact token value is present.
	Exists(ctx context.Context, token string) (bool, error)

	// Delete removes the record with this exact token value if present.
	// Deleting a non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all records whose expiry precedes now.
	DeleteExpired(ctx context.Context, now time.Time) error
}
