package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CredentialVerifier confirms a principal's secret and returns the
// principal's durable identity.
type CredentialVerifier interface {
	// VerifyCredentials returns the user's ID when username and password
	// match a stored credential, or an authentication error otherwise.
	VerifyCredentials(ctx context.Context, username, password string) (string, error)
}

// Issued is the result of a successful login.
type Issued struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Service implements the session state machine: login, refresh, logout.
//
// It is constructed with injected Verifier, Issuer, and Store
// implementations; there is no process-global state. The store is the
// single source of truth for refresh-token validity and may be shared by
// multiple service instances.
type Service struct {
	cfg      Config
	log      *slog.Logger
	verifier CredentialVerifier
	issuer   Issuer
	store    Store
}

// NewService constructs a Service with the provided configuration and
// collaborators.
func NewService(cfg Config, log *slog.Logger, verifier CredentialVerifier, issuer Issuer, store Store) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{cfg: cfg, log: log, verifier: verifier, issuer: issuer, store: store}
}

// Login verifies the principal's credentials, issues an access and a
// refresh token, and persists the refresh token.
//
// A second login for the same principal creates a second valid record;
// concurrent sessions per principal are permitted. Failed credential checks
// leave the store untouched.
func (s *Service) Login(ctx context.Context, now time.Time, username, password string) (Issued, error) {
	if err := s.sweep(ctx, now); err != nil {
		return Issued{}, err
	}

	userID, err := s.verifier.VerifyCredentials(ctx, username, password)
	if err != nil {
		return Issued{}, err
	}

	accessToken, err := s.issuer.IssueAccess(userID, username)
	if err != nil {
		return Issued{}, fmt.Errorf("session: issue access token: %w", err)
	}
	refreshToken, err := s.issuer.IssueRefresh(userID, username)
	if err != nil {
		return Issued{}, fmt.Errorf("session: issue refresh token: %w", err)
	}

	if err := s.store.Add(ctx, refreshToken, s.cfg.RefreshTokenAge); err != nil {
		return Issued{}, err
	}

	return Issued{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.cfg.RefreshTokenAge),
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token.
//
// The token must be present in the store (ErrTokenNotRecognized otherwise)
// and its signature and expiry must verify. Any verification failure burns
// the credential: the record is deleted from the store before the error is
// surfaced, so an invalid presented token cannot be replayed later. The
// refresh token itself is not rotated; the same value remains valid until
// its own expiry or an explicit logout.
func (s *Service) Refresh(ctx context.Context, now time.Time, refreshToken string) (string, error) {
	if err := s.sweep(ctx, now); err != nil {
		return "", err
	}

	ok, err := s.store.Exists(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if !ok {
		// Nothing to revoke: the store never held this value.
		return "", ErrTokenNotRecognized
	}

	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		// The presented token is burned before the error surfaces.
		if delErr := s.store.Delete(ctx, refreshToken); delErr != nil {
			s.log.Error("session.refresh.revoke.fail", "err", delErr)
		}
		return "", err
	}

	accessToken, err := s.issuer.IssueAccess(claims.UserID, claims.Username)
	if err != nil {
		return "", fmt.Errorf("session: issue access token: %w", err)
	}

	return accessToken, nil
}

// Logout deletes the exact refresh token from the store.
//
// Deleting an already-absent token is a no-op, so logout is idempotent.
// Access tokens already issued remain valid until their own expiry.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.store.Delete(ctx, refreshToken)
}

// CurrentIdentity verifies an access token and returns its claims for
// request-authorization middleware. Access tokens are never checked
// against persistent state.
func (s *Service) CurrentIdentity(token string) (Claims, error) {
	return s.issuer.VerifyAccess(token)
}

// sweep removes expired refresh-token records. It runs at the start of
// login and refresh flows, amortizing cleanup into normal traffic.
func (s *Service) sweep(ctx context.Context, now time.Time) error {
	return s.store.DeleteExpired(ctx, now)
}
