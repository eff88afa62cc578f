package auth

import (
	"fmt"
	"strings"
)

// RouteClass partitions request paths for access control. Every reachable
// path maps to exactly one class.
type RouteClass string

const (
	// RouteProtected requires a valid session.
	RouteProtected RouteClass = "protected"
	// RouteAuthOnly must NOT have a session (login, signup, reset pages).
	RouteAuthOnly RouteClass = "authOnly"
	// RoutePublic performs no session check.
	RoutePublic RouteClass = "public"
)

// RouteTable holds the configured route sets. Classification is a pure
// function of path; the sets must be disjoint under prefix matching.
type RouteTable struct {
	protected []string
	authOnly  []string
}

// NewRouteTable builds a RouteTable, rejecting overlapping classifications
// (a path must not be both protected and authOnly).
func NewRouteTable(protected, authOnly []string) (*RouteTable, error) {
	table := &RouteTable{
		protected: normalizeRoutes(protected),
		authOnly:  normalizeRoutes(authOnly),
	}
	for _, p := range table.protected {
		for _, a := range table.authOnly {
			if p == a || matchesPrefix(p, a) || matchesPrefix(a, p) {
				return nil, fmt.Errorf("route classification overlap: %q (protected) vs %q (authOnly)", p, a)
			}
		}
	}
	return table, nil
}

// Classify returns the class for the given request path. Matching is
// prefix-based: a path matches a route when it equals the route exactly or
// starts with route + "/", so nested routes inherit their parent's class.
func (t *RouteTable) Classify(path string) RouteClass {
	for _, route := range t.protected {
		if matchesPrefix(path, route) {
			return RouteProtected
		}
	}
	for _, route := range t.authOnly {
		if matchesPrefix(path, route) {
			return RouteAuthOnly
		}
	}
	return RoutePublic
}

func matchesPrefix(path, route string) bool {
	return path == route || strings.HasPrefix(path, route+"/")
}

func normalizeRoutes(routes []string) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !strings.HasPrefix(r, "/") {
			r = "/" + r
		}
		// Trailing slash would break the equality leg of prefix matching.
		if len(r) > 1 {
			r = strings.TrimSuffix(r, "/")
		}
		out = append(out, r)
	}
	return out
}
