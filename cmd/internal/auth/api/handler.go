package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"leadboard/cmd/identity"
	"leadboard/cmd/internal/auth/session"
	"leadboard/cmd/internal/response"
)

// Handler wires the HTTP auth endpoints to the identity and session
// services. The refresh token travels only in an HTTP-only cookie; the
// access token travels in the response body and Authorization headers.
type Handler struct {
	log *slog.Logger
	cfg Config

	sessions *session.Service
	sessCfg  session.Config
	users    identity.Store
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, sessCfg session.Config, sessions *session.Service, users identity.Store) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		log:      log,
		cfg:      cfg,
		sessions: sessions,
		sessCfg:  sessCfg,
		users:    users,
	}
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/refresh", h.handleRefresh)
	mux.HandleFunc("/auth/logout", h.handleLogout)
	mux.HandleFunc("/auth/username", h.handleUsernameCheck)
	mux.HandleFunc("/auth/password", h.handlePasswordReset)
}

// ---- handlers ----

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := response.DecodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body", "invalid_json")
		return
	}

	username := identity.NormalizeUsername(req.Username)
	if username == "" || req.Password == "" {
		response.Fail(w, http.StatusBadRequest, "username and password are required", "invalid_request")
		return
	}

	issued, err := h.sessions.Login(r.Context(), time.Now().UTC(), username, req.Password)
	if err != nil {
		loginsTotal.WithLabelValues("fail").Inc()
		if errors.Is(err, identity.ErrInvalidCredentials) {
			// A stale cookie from an earlier session must not outlive a
			// failed login.
			h.clearRefreshCookie(w)
			response.Fail(w, http.StatusUnauthorized, "authentication failed", err.Error())
			return
		}
		h.log.Error("auth.login.fail", "err", err)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	loginsTotal.WithLabelValues("success").Inc()
	h.setRefreshCookie(w, issued.RefreshToken, h.sessCfg.RefreshTokenAge)
	response.Success(w, http.StatusCreated, "authentication succeeded", map[string]any{
		"accessToken": issued.AccessToken,
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		response.Fail(w, http.StatusBadRequest, "refresh token cookie is required", "missing_refresh_token")
		return
	}

	accessToken, err := h.sessions.Refresh(r.Context(), time.Now().UTC(), cookie.Value)
	if err != nil {
		refreshesTotal.WithLabelValues("fail").Inc()
		switch {
		case errors.Is(err, session.ErrTokenNotRecognized),
			errors.Is(err, session.ErrTokenExpired),
			errors.Is(err, session.ErrInvalidToken):
			// The presented token is gone from the store either way, so
			// the client's cookie is stale. Clear it.
			h.clearRefreshCookie(w)
			response.Fail(w, http.StatusUnauthorized, "authorization failed", err.Error())
		default:
			h.log.Error("auth.refresh.fail", "err", err)
			response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		}
		return
	}

	refreshesTotal.WithLabelValues("success").Inc()
	response.Success(w, http.StatusOK, "access token refreshed", map[string]any{
		"accessToken": accessToken,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		response.Fail(w, http.StatusBadRequest, "refresh token cookie is required", "missing_refresh_token")
		return
	}

	if err := h.sessions.Logout(r.Context(), cookie.Value); err != nil {
		h.log.Error("auth.logout.fail", "err", err)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	logoutsTotal.Inc()
	h.clearRefreshCookie(w)
	response.Success(w, http.StatusOK, "logged out", nil)
}

func (h *Handler) handleUsernameCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req usernameRequest
	if err := response.DecodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body", "invalid_json")
		return
	}

	username := identity.NormalizeUsername(req.Username)
	if username == "" {
		response.Fail(w, http.StatusBadRequest, "username is required", "invalid_request")
		return
	}

	exists, err := h.users.UsernameExists(r.Context(), username)
	if err != nil {
		h.log.Error("auth.username_check.fail", "err", err)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}
	if !exists {
		response.Fail(w, http.StatusNotFound, "username not found", "unknown_username")
		return
	}

	response.Success(w, http.StatusOK, "username exists", map[string]any{
		"username": username,
	})
}

func (h *Handler) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req passwordRequest
	if err := response.DecodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body", "invalid_json")
		return
	}

	username := identity.NormalizeUsername(req.Username)
	if username == "" || req.Password == "" {
		response.Fail(w, http.StatusBadRequest, "username and password are required", "invalid_request")
		return
	}

	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		h.log.Error("auth.password_reset.hash.fail", "err", err)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	if err := h.users.UpdatePassword(r.Context(), username, hash); err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			response.Fail(w, http.StatusNotFound, "username not found", "unknown_username")
			return
		}
		h.log.Error("auth.password_reset.fail", "err", err)
		response.Fail(w, http.StatusInternalServerError, "internal error", "server_error")
		return
	}

	response.Success(w, http.StatusOK, "password updated", nil)
}

// HandleCurrentUser reports the identity behind the presented access
// token. It is registered behind RequireAuth, which puts the verified
// claims on the request context.
func (h *Handler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	claims, ok := session.ClaimsFrom(r.Context())
	if !ok {
		response.Fail(w, http.StatusUnauthorized, "authorization failed", "missing_claims")
		return
	}

	response.Success(w, http.StatusOK, "authorized", map[string]any{
		"id":       claims.UserID,
		"username": claims.Username,
	})
}

// RequireAuth verifies the bearer access token and attaches its claims
// to the request context before calling next.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Fail(w, http.StatusUnauthorized, "authorization failed", "missing_bearer_token")
			return
		}

		claims, err := h.sessions.CurrentIdentity(token)
		if err != nil {
			response.Fail(w, http.StatusUnauthorized, "authorization failed", err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(session.ContextWithClaims(r.Context(), claims)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(raw) <= len(prefix) || !strings.EqualFold(raw[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(raw[len(prefix):])
	return token, token != ""
}
