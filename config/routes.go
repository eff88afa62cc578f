package config

import "strings"

// RouteConfig holds the route classification tables driving access-control
// middleware. Each request path belongs to exactly one set; classification
// is prefix-based, so nested routes inherit their parent's class.
type RouteConfig struct {
	// Protected routes require a valid session.
	Protected []string `env:"ROUTES_PROTECTED" envDefault:"/dashboard;/analytics;/chatbot" envSeparator:";"`

	// AuthOnly routes must not have a session (login/signup/reset pages).
	AuthOnly []string `env:"ROUTES_AUTH_ONLY" envDefault:"/login;/signup;/forgot-password" envSeparator:";"`

	// Public routes perform no session check. Kept for documentation and
	// sanity checks; anything unclassified is public by default.
	Public []string `env:"ROUTES_PUBLIC" envDefault:"/;/auth/callback;/auth/confirm" envSeparator:";"`
}

// Sanitize trims whitespace and drops empty entries from each table.
func (r *RouteConfig) Sanitize() {
	r.Protected = cleanRoutes(r.Protected)
	r.AuthOnly = cleanRoutes(r.AuthOnly)
	r.Public = cleanRoutes(r.Public)
}

func cleanRoutes(routes []string) []string {
	out := make([]string, 0, len(routes))
	for _, route := range routes {
		route = strings.TrimSpace(route)
		if route != "" {
			out = append(out, route)
		}
	}
	return out
}
