package authapi

import (
	"net/http"
	"time"
)

// setRefreshCookie attaches the refresh token to the response. The cookie is
// HTTP-only so frontend scripts never see the token; cross-site dashboards in
// production require SameSite=None with Secure.
func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Production,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cfg.Production {
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, cookie)
}

// clearRefreshCookie expires the refresh cookie on the client. Attributes
// must match setRefreshCookie or browsers keep the old cookie around.
func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Production,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cfg.Production {
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, cookie)
}
