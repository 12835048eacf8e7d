package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbConnectTimeout = 3 * time.Second

// NewDBPool opens a pgxpool against cfg.DatabaseURL and verifies that a
// connection can actually be acquired before handing the pool out. It does
// not touch the schema; the files under migrations/ are applied out of band.
func NewDBPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("app: parse database url: %w", err)
	}
	applyPoolLimits(pcfg, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("app: open pool: %w", err)
	}
	if err := PingDB(ctx, pool, dbConnectTimeout); err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: initial ping: %w", err)
	}
	return pool, nil
}

// applyPoolLimits copies the configured connection bounds onto the pool
// config, leaving pgx defaults in place when a bound is unset.
func applyPoolLimits(pcfg *pgxpool.Config, cfg Config) {
	if cfg.DBMaxConns > 0 {
		pcfg.MaxConns = cfg.DBMaxConns
	}
	if cfg.DBMinConns > 0 {
		pcfg.MinConns = cfg.DBMinConns
	}
}

// PingDB round-trips a single connection within timeout. The /readyz
// handler calls it on every request.
func PingDB(parent context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("app: acquire conn: %w", err)
	}
	defer conn.Release()
	return conn.Ping(ctx)
}
