package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leadboard/cmd/identity"
)

type fakeVerifier struct {
	users map[string]string // username -> password
}

func (f fakeVerifier) VerifyCredentials(_ context.Context, username, password string) (string, error) {
	pw, ok := f.users[username]
	if !ok || pw != password {
		return "", identity.ErrInvalidCredentials
	}
	return "user-" + username, nil
}

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()

	cfg := testConfig()
	issuer, err := NewHMACIssuer(cfg)
	require.NoError(t, err)

	store := NewMemoryStore()
	verifier := fakeVerifier{users: map[string]string{"alice": "correct-horse"}}

	return NewService(cfg, nil, verifier, issuer, store), store
}

func TestService_Login_PersistsRefreshToken(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	issued, err := svc.Login(ctx, now, "alice", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, issued.AccessToken)
	require.NotEmpty(t, issued.RefreshToken)

	require.Equal(t, 1, store.Len())
	rec, ok := store.Get(issued.RefreshToken)
	require.True(t, ok)

	// Expiry lands within the configured TTL window of issuance.
	ttl := DefaultConfig().RefreshTokenAge
	require.WithinDuration(t, now.Add(ttl), rec.ExpiresAt, 5*time.Second)

	claims, err := svc.CurrentIdentity(issued.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user-alice", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestService_Login_BadSecret(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)

	_, err := svc.Login(context.Background(), time.Now().UTC(), "alice", "wrong")
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
	require.Equal(t, 0, store.Len())
}

func TestService_Login_ConcurrentSessionsPermitted(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := svc.Login(ctx, now, "alice", "correct-horse")
	require.NoError(t, err)

	second, err := svc.Login(ctx, now.Add(time.Second), "alice", "correct-horse")
	require.NoError(t, err)

	// The second login does not invalidate the first session.
	require.Equal(t, 2, store.Len())
	_, ok := store.Get(first.RefreshToken)
	require.True(t, ok)
	_, ok = store.Get(second.RefreshToken)
	require.True(t, ok)
}

func TestService_Refresh_Succeeds_NoRotation(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	issued, err := svc.Login(ctx, now, "alice", "correct-horse")
	require.NoError(t, err)

	before, _ := store.Get(issued.RefreshToken)

	access, err := svc.Refresh(ctx, now.Add(time.Minute), issued.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	// The refresh token is not rotated: same record, unchanged.
	require.Equal(t, 1, store.Len())
	after, ok := store.Get(issued.RefreshToken)
	require.True(t, ok)
	require.Equal(t, before, after)
}

func TestService_Refresh_UnknownToken(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()

	issuer, err := NewHMACIssuer(testConfig())
	require.NoError(t, err)
	tok, err := issuer.IssueRefresh("user-mallory", "mallory")
	require.NoError(t, err)

	// Valid signature, but never persisted.
	_, err = svc.Refresh(ctx, time.Now().UTC(), tok)
	require.ErrorIs(t, err, ErrTokenNotRecognized)
	require.Equal(t, 0, store.Len())
}

func TestService_Refresh_BadSignature_DefensiveRevocation(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()

	// A record exists for a token that fails signature verification.
	forged := "not-a-valid-jwt"
	require.NoError(t, store.Add(ctx, forged, time.Hour))

	_, err := svc.Refresh(ctx, time.Now().UTC(), forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	// The failed attempt burned the credential.
	require.Equal(t, 0, store.Len())
}

func TestService_Refresh_ExpiredSignature_DefensiveRevocation(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()

	cfg := testConfig()
	expired, err := sign("user-alice", "alice", TokenTypeRefresh, -time.Minute, cfg.RefreshTokenKey)
	require.NoError(t, err)

	// Record still present (not yet swept: store expiry in the future).
	require.NoError(t, store.Add(ctx, expired, time.Hour))

	_, err = svc.Refresh(ctx, time.Now().UTC(), expired)
	require.ErrorIs(t, err, ErrTokenExpired)

	// Plain expiry is revoked too, not merely ignored.
	_, ok := store.Get(expired)
	require.False(t, ok)
}

func TestService_Refresh_SweepsExpiredRecords(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Add(ctx, "stale-token", -time.Minute))

	issued, err := svc.Login(ctx, now, "alice", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, now, issued.RefreshToken)
	require.NoError(t, err)

	_, ok := store.Get("stale-token")
	require.False(t, ok)
}

func TestService_Logout_Idempotent(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	issued, err := svc.Login(ctx, now, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, issued.RefreshToken))
	require.Equal(t, 0, store.Len())

	// Second logout with the same token is a no-op, not an error.
	require.NoError(t, svc.Logout(ctx, issued.RefreshToken))

	// A subsequent refresh with the revoked cookie is rejected.
	_, err = svc.Refresh(ctx, now, issued.RefreshToken)
	require.ErrorIs(t, err, ErrTokenNotRecognized)
}

func TestService_LoginRefreshLogout_Scenario(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	issued, err := svc.Login(ctx, now, "alice", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	rec, _ := store.Get(issued.RefreshToken)
	require.WithinDuration(t, now.Add(2*24*time.Hour), rec.ExpiresAt, 5*time.Second)

	access, err := svc.Refresh(ctx, now, issued.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.Equal(t, 1, store.Len())

	require.NoError(t, svc.Logout(ctx, issued.RefreshToken))
	require.Equal(t, 0, store.Len())

	_, err = svc.Refresh(ctx, now, issued.RefreshToken)
	require.ErrorIs(t, err, ErrTokenNotRecognized)
}

func TestService_RunSweeper_StopsOnCancel(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SweepInterval = 5 * time.Millisecond

	issuer, err := NewHMACIssuer(cfg)
	require.NoError(t, err)
	store := NewMemoryStore()
	svc := NewService(cfg, nil, fakeVerifier{}, issuer, store)

	require.NoError(t, store.Add(context.Background(), "stale-token", -time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunSweeper(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
