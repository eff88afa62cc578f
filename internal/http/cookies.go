package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
)

// Session token cookie names. The pair travels together: the access token is
// the short-lived credential, the refresh token lets the provider rotate it.
const (
	accessTokenCookie  = "sw-access-token"
	refreshTokenCookie = "sw-refresh-token"

	// refreshCookieMaxAge outlives the access token so an expired access
	// token can still be refreshed on the next visit.
	refreshCookieMaxAge = 30 * 24 * 60 * 60
)

// CookieBridge reads and writes the session token cookies. Session validation
// may rotate the token pair mid-request, so anything that validates a session
// must hold a bridge to re-persist the rotated cookies; dropping them logs
// the user out once the old refresh token ages out.
type CookieBridge struct {
	Domain string
}

// ReadSession extracts the session token pair from the request cookies.
// Returns false when neither token is present.
func (b CookieBridge) ReadSession(r *http.Request) (domainauth.Session, bool) {
	var sess domainauth.Session
	if c, err := r.Cookie(accessTokenCookie); err == nil {
		sess.AccessToken = c.Value
	}
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		sess.RefreshToken = c.Value
	}
	return sess, sess.AccessToken != "" || sess.RefreshToken != ""
}

// WriteSession persists the session token pair to response cookies.
func (b CookieBridge) WriteSession(w http.ResponseWriter, r *http.Request, sess domainauth.Session) {
	isSecure := requestIsSecure(r)

	accessMaxAge := int(time.Until(sess.ExpiresAt).Seconds())
	if sess.ExpiresAt.IsZero() || accessMaxAge <= 0 {
		accessMaxAge = 3600
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    sess.AccessToken,
		Path:     "/",
		Domain:   b.Domain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   accessMaxAge,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    sess.RefreshToken,
		Path:     "/",
		Domain:   b.Domain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   refreshCookieMaxAge,
	})
}

// ClearSession expires both session cookies. It mirrors the attributes used
// when setting them to maximize compatibility across browsers during deletion.
func (b CookieBridge) ClearSession(w http.ResponseWriter, r *http.Request) {
	isSecure := requestIsSecure(r)
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   b.Domain,
			HttpOnly: true,
			Secure:   isSecure,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0).UTC(),
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
