package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (users table).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed identity store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// GetByUsername loads a user row by username.
func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User

	err := s.pool.QueryRow(ctx, `
		SELECT id, username, password
		FROM users
		WHERE username = $1
	`, NormalizeUsername(username)).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("identity: get user: %w", err)
	}

	return u, nil
}

// UsernameExists reports whether a username is registered.
func (s *PostgresStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var found string

	err := s.pool.QueryRow(ctx, `
		SELECT username
		FROM users
		WHERE username = $1
	`, NormalizeUsername(username)).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("identity: lookup username: %w", err)
	}

	return true, nil
}

// UpdatePassword replaces the stored password hash for username.
func (s *PostgresStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET password = $2
		WHERE username = $1
	`, NormalizeUsername(username), passwordHash)
	if err != nil {
		return fmt.Errorf("identity: update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
