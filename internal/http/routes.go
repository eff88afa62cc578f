// Package httpx provides the HTTP surface: router, handlers, middleware, and
// the session cookie bridge.
package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthOrchestrator
	Validator SessionValidator
	Expenses  ExpenseServiceInterface
	Routes    *domainauth.RouteTable

	// Configuration
	BaseURL      string
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router with the full middleware
// chain. Ordering matters: SessionRefresh must resolve the user before
// AccessControl classifies the route.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bridge := CookieBridge{Domain: services.CookieDomain}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:     services.Auth,
		Bridge:  bridge,
		BaseURL: services.BaseURL,
		Logger:  logger,
	}
	callbackHandlers := &CallbackHandlers{Svc: services.Auth, Bridge: bridge}
	expenseHandlers := &ExpenseHandlers{Svc: services.Expenses}

	registerAuthRoutes(mux, authHandlers, callbackHandlers)
	registerExpenseRoutes(mux, expenseHandlers)
	registerPageRoutes(mux)
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	var handler http.Handler = mux
	handler = AccessControl(services.Routes)(handler)
	handler = SessionRefresh(services.Validator, bridge, logger)(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, cb *CallbackHandlers) {
	mux.HandleFunc("POST /auth/signup", h.SignUp)
	mux.HandleFunc("POST /auth/login", h.SignIn)
	mux.HandleFunc("POST /auth/oauth/{provider}", h.OAuth)
	mux.HandleFunc("POST /auth/logout", h.SignOut)
	mux.HandleFunc("POST /auth/reset-password", h.ResetPassword)
	mux.HandleFunc("GET /auth/me", h.Me)
	mux.HandleFunc("GET /auth/callback", cb.Callback)
	mux.HandleFunc("GET /auth/confirm", cb.Confirm)
}

func registerExpenseRoutes(mux *http.ServeMux, h *ExpenseHandlers) {
	requireAuth := RequireAuth()
	mux.Handle("POST /api/expenses", requireAuth(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/expenses/recent", requireAuth(http.HandlerFunc(h.Recent)))
	mux.Handle("GET /api/expenses/summary", requireAuth(http.HandlerFunc(h.Summary)))
	mux.Handle("GET /api/expenses/{id}", requireAuth(http.HandlerFunc(h.Get)))
	mux.Handle("DELETE /api/expenses/{id}", requireAuth(http.HandlerFunc(h.Delete)))
}

// registerPageRoutes wires the browser-facing pages. The pages themselves are
// rendered by the SPA frontend; the server's job here is to put them on the
// routing surface so the access-control middleware classifies real paths.
func registerPageRoutes(mux *http.ServeMux) {
	pages := map[string]string{
		"/{$}":             "SpendWise",
		"/dashboard":       "Dashboard",
		"/analytics":       "Analytics",
		"/chatbot":         "Chatbot",
		"/login":           "Sign In",
		"/signup":          "Sign Up",
		"/forgot-password": "Reset Password",
	}
	for pattern, title := range pages {
		mux.HandleFunc("GET "+pattern, pageHandler(title))
	}
}

func pageHandler(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!doctype html><html><head><title>" + title + "</title></head><body><div id=\"root\"></div></body></html>"))
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
