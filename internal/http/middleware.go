package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
	"github.com/spendwise/spendwise/internal/ports"
)

// SessionValidator is the slice of the auth service the middleware needs.
type SessionValidator interface {
	RefreshSession(ctx context.Context, sess domainauth.Session) (*domainauth.AuthUser, *domainauth.Session, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionRefresh returns the middleware that bridges session cookies to the
// identity provider. It validates the cookie pair, stashes the resolved user
// in the request context, and re-persists any rotated token pair to the
// response. It must run exactly once per request, before any access-control
// decision: validation rotates tokens as a side effect, and an unpersisted
// rotation is a silent logout.
func SessionRefresh(validator SessionValidator, bridge CookieBridge, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := bridge.ReadSession(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, rotated, err := validator.RefreshSession(r.Context(), sess)
			if err != nil {
				// Only a definitive provider rejection destroys the session.
				// Transport failures and provider 5xx responses leave the
				// cookies alone; the pair may still be valid once the
				// provider recovers.
				if sessionRejected(err) {
					logger.DebugContext(r.Context(), "session rejected", "err", err)
					bridge.ClearSession(w, r)
				} else {
					logger.WarnContext(r.Context(), "session validation unavailable", "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			if rotated != nil {
				bridge.WriteSession(w, r, *rotated)
			}

			ctx := SetUserInContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionRejected reports whether a validation failure is a definitive
// provider rejection of the token pair, as opposed to the provider being
// unreachable or broken.
func sessionRejected(err error) bool {
	var providerErr *ports.ProviderError
	if !errors.As(err, &providerErr) {
		return false
	}
	return providerErr.Status >= http.StatusBadRequest && providerErr.Status < http.StatusInternalServerError
}

// AccessControl returns the middleware enforcing the route classification
// tables. It must run after SessionRefresh so the user (or its absence) is
// already resolved in the context.
func AccessControl(table *domainauth.RouteTable) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, authenticated := GetUserFromContext(r.Context())

			switch table.Classify(r.URL.Path) {
			case domainauth.RouteProtected:
				if !authenticated {
					redirectToLogin(w, r)
					return
				}
			case domainauth.RouteAuthOnly:
				if authenticated {
					http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
					return
				}
			case domainauth.RoutePublic:
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware for API routes that requires an
// authenticated user in the context. Unauthenticated requests get a 401 JSON
// response rather than a redirect.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUserFromContext(r.Context()); !ok {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// redirectToLogin sends the browser to the login page with the original
// destination as a redirectTo query parameter so the post-login flow can
// return the user there.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := safeRedirectPath(r.URL.RequestURI())

	loginURL := url.URL{Path: "/login"}
	q := url.Values{}
	q.Set("redirectTo", target)
	loginURL.RawQuery = q.Encode()

	http.Redirect(w, r, loginURL.String(), http.StatusSeeOther)
}
