// Package app wires the leadboard server runtime: config, logging, the
// database pool, HTTP routes, and the background token sweeper.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"leadboard/cmd/identity"
	authapi "leadboard/cmd/internal/auth/api"
	"leadboard/cmd/internal/auth/session"
	"leadboard/cmd/internal/crm"
	"leadboard/cmd/internal/insight"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the leadboard server runtime. It owns the database pool, the
// HTTP server wiring, and the session sweeper lifecycle.
type App struct {
	cfg Config
	log Logger

	dbPool *pgxpool.Pool

	sessions *session.Service
	auth     *authapi.Handler
	crm      *crm.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("app: LEADBOARD_DATABASE_URL is required")
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if err := ValidateSecurityConfig(cfg, sessCfg); err != nil {
		return nil, err
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("app: connect database: %w", err)
	}
	log.Info("db.ready", "max_conns", cfg.DBMaxConns)

	issuer, err := session.NewHMACIssuer(sessCfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	userStore := identity.NewPostgresStore(pool)
	sessionStore := session.NewPostgresStore(pool)
	sessions := session.NewService(sessCfg, log, identity.NewVerifier(userStore), issuer, sessionStore)

	authCfg := authapi.LoadConfigFromEnv()
	authHandler := authapi.NewHandler(log, authCfg, sessCfg, sessions, userStore)

	var insights crm.InsightGenerator
	if cfg.GeminiAPIKey != "" {
		insights = insight.NewClient(cfg.GeminiAPIKey)
	} else {
		log.Info("insight.disabled")
	}
	crmHandler := crm.NewHandler(log, crm.NewPostgresStore(pool), insights, authCfg.MaxBodyBytes)

	return &App{
		cfg:      cfg,
		log:      log,
		dbPool:   pool,
		sessions: sessions,
		auth:     authHandler,
		crm:      crmHandler,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal server error. The background sweeper, when configured, runs for
// the same lifetime.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.auth, a.crm)

	var handler http.Handler = mux
	handler = WithCORS(handler, a.cfg, a.log)
	handler = WithSecurityHeaders(handler)
	handler = WithRequestLogging(handler, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go a.sessions.RunSweeper(sweepCtx)

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.dbPool.Close()
	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
