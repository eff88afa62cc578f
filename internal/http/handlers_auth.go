package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
	"github.com/spendwise/spendwise/internal/service"
)

// AuthOrchestrator defines the orchestrated auth actions the handlers drive.
type AuthOrchestrator interface {
	SignUp(ctx context.Context, req service.SignUpRequest, redirectTo string) domainauth.Outcome
	SignIn(ctx context.Context, req service.SignInRequest, redirectTo string) domainauth.Outcome
	SignInWithOAuth(ctx context.Context, provider domainauth.OAuthProvider, callbackURL string) domainauth.Outcome
	SignOut(ctx context.Context, sess domainauth.Session) domainauth.Outcome
	ResetPassword(ctx context.Context, email string) domainauth.Outcome
	CompleteOAuth(ctx context.Context, params service.CallbackParams) domainauth.Outcome
	ConfirmEmail(ctx context.Context, params service.ConfirmParams) domainauth.Outcome
}

// AuthHandlers provides HTTP handlers for the auth form actions.
type AuthHandlers struct {
	Svc     AuthOrchestrator
	Bridge  CookieBridge
	BaseURL string
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// SignUp handles new account registration.
// POST /auth/signup?redirectTo=<optional_target>.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req service.SignUpRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	outcome := h.Svc.SignUp(r.Context(), req, r.URL.Query().Get("redirectTo"))
	h.apply(w, r, outcome)
}

// SignIn handles email/password login.
// POST /auth/login?redirectTo=<optional_target>.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req service.SignInRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	outcome := h.Svc.SignIn(r.Context(), req, r.URL.Query().Get("redirectTo"))
	h.apply(w, r, outcome)
}

// OAuth kicks off social sign-in with the named provider. The success
// response navigates the whole page to the provider's authorize URL, leaving
// this origin.
// POST /auth/oauth/{provider}.
func (h *AuthHandlers) OAuth(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")
	if !domainauth.ValidOAuthProvider(name) {
		WriteJSON(w, http.StatusBadRequest, domainauth.AuthResult{
			Error: "Unable to connect to the authentication provider. Please try again.",
		})
		return
	}

	callbackURL := h.callbackURL(r)
	outcome := h.Svc.SignInWithOAuth(r.Context(), domainauth.OAuthProvider(name), callbackURL)
	h.apply(w, r, outcome)
}

// SignOut revokes the session and clears cookies.
// POST /auth/logout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.Bridge.ReadSession(r)
	outcome := h.Svc.SignOut(r.Context(), sess)
	h.apply(w, r, outcome)
}

// ResetPassword requests a password reset email.
// POST /auth/reset-password.
func (h *AuthHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	outcome := h.Svc.ResetPassword(r.Context(), req.Email)
	h.apply(w, r, outcome)
}

// Me returns the authenticated user resolved by the session middleware.
// GET /auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          user,
	})
}

// apply materializes an auth outcome onto the response. Redirect outcomes
// persist or clear session cookies first, then navigate; result outcomes
// render as JSON. The two variants are mutually exclusive, so a generic
// error path can never swallow a navigation.
func (h *AuthHandlers) apply(w http.ResponseWriter, r *http.Request, outcome domainauth.Outcome) {
	if redirect := outcome.Redirect; redirect != nil {
		if redirect.ClearSession {
			h.Bridge.ClearSession(w, r)
		}
		if redirect.Session != nil {
			h.Bridge.WriteSession(w, r, *redirect.Session)
		}
		http.Redirect(w, r, redirect.Location, http.StatusSeeOther)
		return
	}

	result := outcome.Result
	if result == nil {
		h.logger().ErrorContext(r.Context(), "auth outcome carried neither redirect nor result")
		WriteJSON(w, http.StatusInternalServerError, domainauth.AuthResult{
			Error: "An unexpected error occurred. Please try again.",
		})
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	WriteJSON(w, status, result)
}

// callbackURL builds the absolute OAuth callback URL from the configured
// base URL, falling back to the request host.
func (h *AuthHandlers) callbackURL(r *http.Request) string {
	base := strings.TrimSuffix(h.BaseURL, "/")
	if base == "" {
		scheme := "http"
		if requestIsSecure(r) {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/auth/callback"
}

// safeRedirectPath ensures the provided redirect is a same-origin relative
// path starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
