package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"leadboard/cmd/identity"
	"leadboard/cmd/internal/auth/session"
	"leadboard/cmd/internal/response"
)

type memUsers struct {
	users map[string]identity.User
}

func newMemUsers(users ...identity.User) *memUsers {
	m := &memUsers{users: make(map[string]identity.User)}
	for _, u := range users {
		m.users[u.Username] = u
	}
	return m
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (identity.User, error) {
	u, ok := m.users[username]
	if !ok {
		return identity.User{}, identity.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, username, passwordHash string) error {
	u, ok := m.users[username]
	if !ok {
		return identity.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	m.users[username] = u
	return nil
}

type fixture struct {
	handler *Handler
	mux     *http.ServeMux
	store   *session.MemoryStore
	users   *memUsers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	users := newMemUsers(identity.User{
		ID:           "user-1",
		Username:     "alice",
		PasswordHash: string(hash),
	})

	sessCfg := session.DefaultConfig()
	sessCfg.AccessTokenKey = []byte("access-test-key")
	sessCfg.RefreshTokenKey = []byte("refresh-test-key")

	issuer, err := session.NewHMACIssuer(sessCfg)
	require.NoError(t, err)

	store := session.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := session.NewService(sessCfg, log, identity.NewVerifier(users), issuer, store)

	h := NewHandler(log, Config{MaxBodyBytes: 1 << 20}, sessCfg, svc, users)
	mux := http.NewServeMux()
	h.Register(mux)
	mux.Handle("/private/user", h.RequireAuth(http.HandlerFunc(h.HandleCurrentUser)))

	return &fixture{handler: h, mux: mux, store: store, users: users}
}

func (f *fixture) do(t *testing.T, method, path string, body any, mutate func(*http.Request)) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if mutate != nil {
		mutate(req)
	}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	var env response.Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == RefreshCookieName {
			return c
		}
	}
	t.Fatal("no refresh cookie in response")
	return nil
}

func TestLoginSetsCookieAndReturnsAccessToken(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/auth/login", loginRequest{Username: "alice", Password: "open-sesame"}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, response.StatusSuccess, env.Status)
	require.NotEmpty(t, env.Data["accessToken"])

	c := refreshCookie(t, rec)
	require.True(t, c.HttpOnly)
	require.NotEmpty(t, c.Value)
	require.Equal(t, 1, f.store.Len())
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/auth/login", loginRequest{Username: "alice", Password: "nope"}, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, response.StatusFail, env.Status)
	require.Equal(t, 0, f.store.Len())

	// Any stale cookie is cleared on the failed attempt.
	c := refreshCookie(t, rec)
	require.Empty(t, c.Value)
	require.Negative(t, c.MaxAge)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/auth/login", loginRequest{Username: "  "}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshReturnsNewAccessToken(t *testing.T) {
	f := newFixture(t)

	loginRec, _ := f.do(t, http.MethodPost, "/auth/login", loginRequest{Username: "alice", Password: "open-sesame"}, nil)
	cookie := refreshCookie(t, loginRec)

	rec, env := f.do(t, http.MethodPut, "/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(cookie)
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, response.StatusSuccess, env.Status)
	require.NotEmpty(t, env.Data["accessToken"])
	// No rotation: the stored refresh token is unchanged.
	require.Equal(t, 1, f.store.Len())
}

func TestRefreshWithoutCookieIsBadRequest(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPut, "/auth/refresh", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshWithUnknownTokenClearsCookie(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPut, "/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "never-stored"})
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, response.StatusFail, env.Status)

	c := refreshCookie(t, rec)
	require.Empty(t, c.Value)
	require.Negative(t, c.MaxAge)
}

func TestRefreshWithForgedStoredTokenRevokesIt(t *testing.T) {
	f := newFixture(t)

	// A value the store holds but the issuer never signed.
	forged := "forged-refresh-token"
	require.NoError(t, f.store.Add(context.Background(), forged, time.Hour))

	rec, _ := f.do(t, http.MethodPut, "/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: forged})
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, 0, f.store.Len())
}

func TestLogoutDeletesTokenAndClearsCookie(t *testing.T) {
	f := newFixture(t)

	loginRec, _ := f.do(t, http.MethodPost, "/auth/login", loginRequest{Username: "alice", Password: "open-sesame"}, nil)
	cookie := refreshCookie(t, loginRec)

	rec, env := f.do(t, http.MethodDelete, "/auth/logout", nil, func(r *http.Request) {
		r.AddCookie(cookie)
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, response.StatusSuccess, env.Status)
	require.Equal(t, 0, f.store.Len())

	c := refreshCookie(t, rec)
	require.Empty(t, c.Value)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newFixture(t)

	withCookie := func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "already-gone"})
	}

	rec, _ := f.do(t, http.MethodDelete, "/auth/logout", nil, withCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/auth/logout", nil, withCookie)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutWithoutCookieIsBadRequest(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodDelete, "/auth/logout", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsernameCheck(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/auth/username", usernameRequest{Username: "alice"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/auth/username", usernameRequest{Username: "mallory"}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPasswordResetChangesCredential(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPut, "/auth/password", passwordRequest{Username: "alice", Password: "new-secret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/auth/login", loginRequest{Username: "alice", Password: "open-sesame"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/auth/login", loginRequest{Username: "alice", Password: "new-secret"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestPasswordResetUnknownUser(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPut, "/auth/password", passwordRequest{Username: "mallory", Password: "x"}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequireAuthAcceptsValidBearer(t *testing.T) {
	f := newFixture(t)

	_, env := f.do(t, http.MethodPost, "/auth/login", loginRequest{Username: "alice", Password: "open-sesame"}, nil)
	access, _ := env.Data["accessToken"].(string)
	require.NotEmpty(t, access)

	rec, userEnv := f.do(t, http.MethodGet, "/private/user", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+access)
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", userEnv.Data["username"])
	require.Equal(t, "user-1", userEnv.Data["id"])
}

func TestRequireAuthRejectsMissingOrBadToken(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/private/user", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/private/user", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-token")
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsRefreshTokenAsBearer(t *testing.T) {
	f := newFixture(t)

	loginRec, _ := f.do(t, http.MethodPost, "/auth/login", loginRequest{Username: "alice", Password: "open-sesame"}, nil)
	cookie := refreshCookie(t, loginRec)

	rec, _ := f.do(t, http.MethodGet, "/private/user", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+cookie.Value)
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
