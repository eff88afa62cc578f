package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeHosted delegates credentials to a hosted identity service.
	AuthModeHosted AuthMode = "hosted"
	// AuthModeOIDC runs the OAuth code flow against a generic OIDC IdP
	// (SSO-only deployments; password sign-in is unavailable).
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "hosted", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: hosted, oidc, mock)", v)
	}
}

// HostedConfig contains configuration for the hosted identity provider.
type HostedConfig struct {
	// BaseURL is the provider project URL (e.g., "https://xyz.example.co").
	BaseURL string `env:"BASE_URL"`

	// PublishableKey is the public client key. Safe for browser exposure;
	// the data store enforces row-level security for requests made with it.
	PublishableKey string `env:"PUBLISHABLE_KEY"`

	// SecretKey is the server-only key that bypasses row-level security.
	// It must never reach client-served code or logs.
	SecretKey string `env:"SECRET_KEY"`
}

// OIDCConfig contains OAuth/OIDC configuration for self-hosted SSO mode.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"spendwise"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// MockAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type MockAuthConfig struct {
	UserID   string `env:"USER_ID"   envDefault:"dev-user"`
	Email    string `env:"EMAIL"     envDefault:"dev@example.com"`
	FullName string `env:"FULL_NAME" envDefault:"Dev User"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which credential provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"hosted"`

	// Hosted provider configuration (used when Mode=hosted).
	Hosted HostedConfig `envPrefix:"AUTH_"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// Mock configuration (used when Mode=mock).
	Mock MockAuthConfig `envPrefix:"MOCK_AUTH_"`
}
