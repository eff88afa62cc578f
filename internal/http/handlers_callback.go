package httpx

import (
	"net/http"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
	"github.com/spendwise/spendwise/internal/service"
)

// CallbackHandlers completes the asynchronous external flows: the OAuth
// authorization-code exchange and the email verification link. Both are
// stateless GETs whose every outcome is a redirect.
type CallbackHandlers struct {
	Svc    AuthOrchestrator
	Bridge CookieBridge
}

// Callback handles the redirect back from the OAuth provider.
// GET /auth/callback?code=...&next=...  (or ?error=...&error_description=...).
func (h *CallbackHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	outcome := h.Svc.CompleteOAuth(r.Context(), service.CallbackParams{
		Code:             query.Get("code"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
		Next:             query.Get("next"),
	})
	h.applyRedirect(w, r, outcome)
}

// Confirm handles email verification links.
// GET /auth/confirm?token_hash=...&type=...&next=...
func (h *CallbackHandlers) Confirm(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	outcome := h.Svc.ConfirmEmail(r.Context(), service.ConfirmParams{
		TokenHash: query.Get("token_hash"),
		Type:      query.Get("type"),
		Next:      query.Get("next"),
	})
	h.applyRedirect(w, r, outcome)
}

func (h *CallbackHandlers) applyRedirect(w http.ResponseWriter, r *http.Request, outcome domainauth.Outcome) {
	redirect := outcome.Redirect
	if redirect == nil {
		// The orchestrator only produces redirects for these flows.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if redirect.Session != nil {
		h.Bridge.WriteSession(w, r, *redirect.Session)
	}
	http.Redirect(w, r, redirect.Location, http.StatusSeeOther)
}
