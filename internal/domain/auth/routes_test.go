package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *RouteTable {
	t.Helper()
	table, err := NewRouteTable(
		[]string{"/dashboard", "/analytics", "/chatbot"},
		[]string{"/login", "/signup", "/forgot-password"},
	)
	require.NoError(t, err)
	return table
}

func TestClassify(t *testing.T) {
	table := newTestTable(t)

	tests := []struct {
		path string
		want RouteClass
	}{
		{"/dashboard", RouteProtected},
		{"/dashboard/settings", RouteProtected},
		{"/analytics", RouteProtected},
		{"/chatbot", RouteProtected},
		{"/login", RouteAuthOnly},
		{"/signup", RouteAuthOnly},
		{"/forgot-password", RouteAuthOnly},
		{"/", RoutePublic},
		{"/auth/callback", RoutePublic},
		{"/auth/confirm", RoutePublic},
		// Prefix matching requires a path separator boundary.
		{"/dashboards", RoutePublic},
		{"/loginish", RoutePublic},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, table.Classify(tc.path), "path %q", tc.path)
	}
}

func TestNewRouteTable_RejectsOverlap(t *testing.T) {
	_, err := NewRouteTable([]string{"/dashboard"}, []string{"/dashboard"})
	assert.Error(t, err)

	_, err = NewRouteTable([]string{"/account"}, []string{"/account/login"})
	assert.Error(t, err)
}

func TestNewRouteTable_NormalizesEntries(t *testing.T) {
	table, err := NewRouteTable([]string{" dashboard ", "/analytics/", ""}, nil)
	require.NoError(t, err)

	assert.Equal(t, RouteProtected, table.Classify("/dashboard"))
	assert.Equal(t, RouteProtected, table.Classify("/analytics"))
	assert.Equal(t, RouteProtected, table.Classify("/analytics/monthly"))
}

func TestValidOAuthProvider(t *testing.T) {
	assert.True(t, ValidOAuthProvider("google"))
	assert.True(t, ValidOAuthProvider("github"))
	assert.False(t, ValidOAuthProvider("myspace"))
	assert.False(t, ValidOAuthProvider(""))
}
