package oidc

// Package oidc implements the CredentialProvider port against a generic OIDC
// identity provider for SSO-only deployments. Password, email-token, and
// reset operations are not part of the OIDC protocol and return
// ports.ErrUnsupported.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
	"github.com/spendwise/spendwise/internal/ports"
)

// Provider implements ports.CredentialProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new OIDC provider. It performs a single discovery
// fetch, so it needs network access at construction time.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{httpClient: httpClient}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       strings.Fields(config.Scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

var _ ports.CredentialProvider = (*Provider)(nil)

// SignUp is unavailable in SSO-only mode; accounts live at the IdP.
func (p *Provider) SignUp(context.Context, string, string, string) (*ports.SignUpOutcome, error) {
	return nil, ports.ErrUnsupported
}

// SignInWithPassword is unavailable in SSO-only mode.
func (p *Provider) SignInWithPassword(context.Context, string, string) (*domainauth.Session, error) {
	return nil, ports.ErrUnsupported
}

// OAuthAuthorizeURL returns the IdP authorization URL. The configured IdP is
// the only upstream, so the social provider argument is ignored; the
// redirect target must match the registered RedirectURL and is likewise not
// overridden here.
func (p *Provider) OAuthAuthorizeURL(_ context.Context, _ domainauth.OAuthProvider, _ string) (string, error) {
	state, err := generateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}

	return p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	), nil
}

// ExchangeCode trades an authorization code for a session.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (*domainauth.Session, error) {
	if code == "" {
		return nil, errors.New("authorization code is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, &ports.ProviderError{Message: "OAuth provider error: " + err.Error()}
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return &domainauth.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// VerifyEmailToken is unavailable in SSO-only mode.
func (p *Provider) VerifyEmailToken(context.Context, string, domainauth.OTPType) (*domainauth.Session, error) {
	return nil, ports.ErrUnsupported
}

// SignOut drops the local session only. RP-initiated logout at the IdP is a
// browser navigation, not a server call, and is out of scope here.
func (p *Provider) SignOut(context.Context, string) error { return nil }

// SendPasswordReset is unavailable in SSO-only mode.
func (p *Provider) SendPasswordReset(context.Context, string) error {
	return ports.ErrUnsupported
}

// ValidateSession resolves the session's user via the userinfo endpoint,
// refreshing the token pair when the access token has expired.
func (p *Provider) ValidateSession(ctx context.Context, sess domainauth.Session) (*domainauth.AuthUser, *domainauth.Session, error) {
	if sess.AccessToken == "" && sess.RefreshToken == "" {
		return nil, nil, &ports.ProviderError{Message: "no session", Status: http.StatusUnauthorized}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	if sess.AccessToken != "" {
		user, err := p.fetchUser(ctx, sess.AccessToken)
		if err == nil {
			return user, nil, nil
		}
		if sess.RefreshToken == "" {
			return nil, nil, err
		}
	}

	rotated, err := p.refresh(ctx, sess.RefreshToken)
	if err != nil {
		return nil, nil, err
	}
	user, err := p.fetchUser(ctx, rotated.AccessToken)
	if err != nil {
		return nil, nil, err
	}
	return user, rotated, nil
}

// userInfoClaims is the subset of standard OIDC claims this app consumes.
type userInfoClaims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *Provider) fetchUser(ctx context.Context, accessToken string) (*domainauth.AuthUser, error) {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return nil, &ports.ProviderError{Message: "fetch user info: " + err.Error(), Status: http.StatusUnauthorized}
	}

	var claims userInfoClaims
	if claimsErr := ui.Claims(&claims); claimsErr != nil {
		return nil, fmt.Errorf("decode user info: %w", claimsErr)
	}
	if claims.Subject == "" {
		return nil, errors.New("userinfo response missing sub")
	}

	return &domainauth.AuthUser{
		ID:        claims.Subject,
		Email:     claims.Email,
		FullName:  claims.Name,
		AvatarURL: claims.Picture,
	}, nil
}

func (p *Provider) refresh(ctx context.Context, refreshToken string) (*domainauth.Session, error) {
	source := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, &ports.ProviderError{Message: "refresh token: " + err.Error(), Status: http.StatusUnauthorized}
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	rotatedRefresh := token.RefreshToken
	if rotatedRefresh == "" {
		rotatedRefresh = refreshToken
	}

	return &domainauth.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: rotatedRefresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// generateRandomString generates a cryptographically secure URL-safe random
// string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
