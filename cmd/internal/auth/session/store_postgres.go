package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (authentications table).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed refresh-token store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Add inserts a refresh-token record with expiry now+ttl.
func (s *PostgresStore) Add(ctx context.Context, token string, ttl time.Duration) error {
	expiresAt := time.Now().UTC().Add(ttl)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO authentications (token, expires_at)
		VALUES ($1, $2)
	`, token, expiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("session: duplicate refresh token: %w", err)
		}
		return fmt.Errorf("session: add refresh token: %w", err)
	}

	return nil
}

// Exists reports whether a record for this exact token value is present.
func (s *PostgresStore) Exists(ctx context.Context, token string) (bool, error) {
	var found string

	err := s.pool.QueryRow(ctx, `
		SELECT token
		FROM authentications
		WHERE token = $1
	`, token).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session: lookup refresh token: %w", err)
	}

	return true, nil
}

// Delete removes the record with this exact token value (idempotent).
func (s *PostgresStore) Delete(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM authentications
		WHERE token = $1
	`, token)
	if err != nil {
		return fmt.Errorf("session: delete refresh token: %w", err)
	}
	return nil
}

// DeleteExpired removes all records whose expiry precedes now (idempotent).
func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM authentications
		WHERE expires_at < $1
	`, now)
	if err != nil {
		return fmt.Errorf("session: delete expired refresh tokens: %w", err)
	}
	return nil
}
