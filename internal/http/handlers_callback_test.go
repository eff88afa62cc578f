package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
)

func TestCallbackHandler_SuccessWritesSessionAndRedirects(t *testing.T) {
	sess := &domainauth.Session{
		AccessToken:  "acc",
		RefreshToken: "ref",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	svc := &stubOrchestrator{callbackOutcome: domainauth.RedirectOutcome("/dashboard", sess)}
	h := &CallbackHandlers{Svc: svc, Bridge: CookieBridge{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc123", nil)
	w := httptest.NewRecorder()
	h.Callback(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	require.Len(t, w.Result().Cookies(), 2)
}

func TestCallbackHandler_ProviderErrorRedirectsToLogin(t *testing.T) {
	svc := &stubOrchestrator{
		callbackOutcome: domainauth.Outcome{
			Redirect: &domainauth.Redirect{Location: "/login?error=User+denied+access"},
		},
	}
	h := &CallbackHandlers{Svc: svc, Bridge: CookieBridge{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?error=access_denied&error_description=User+denied+access", nil)
	w := httptest.NewRecorder()
	h.Callback(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?error=User+denied+access", w.Header().Get("Location"))
	assert.Empty(t, w.Result().Cookies())
}

func TestConfirmHandler_SuccessRedirectsWithVerifiedMarker(t *testing.T) {
	svc := &stubOrchestrator{confirmOutcome: domainauth.RedirectOutcome("/dashboard?verified=true", nil)}
	h := &CallbackHandlers{Svc: svc, Bridge: CookieBridge{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/confirm?token_hash=tok&type=signup", nil)
	w := httptest.NewRecorder()
	h.Confirm(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard?verified=true", w.Header().Get("Location"))
}

func TestCallbackHandler_NilRedirectFallsBackToLogin(t *testing.T) {
	svc := &stubOrchestrator{callbackOutcome: domainauth.Outcome{}}
	h := &CallbackHandlers{Svc: svc, Bridge: CookieBridge{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback", nil)
	w := httptest.NewRecorder()
	h.Callback(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
