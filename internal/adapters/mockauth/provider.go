package mockauth

// Package mockauth provides a config-driven CredentialProvider for local
// development. Any credentials are accepted and resolve to the configured
// identity; tokens are random strings tracked in memory.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
	"github.com/spendwise/spendwise/internal/ports"
)

// Config controls the mock auth provider identity.
type Config struct {
	UserID          string
	Email           string
	FullName        string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.CredentialProvider for local development.
// It short-circuits the OAuth flow by pointing the browser straight back at
// our own callback with a placeholder code.
type Provider struct {
	user            domainauth.AuthUser
	sessionDuration time.Duration

	mu     sync.Mutex
	issued map[string]time.Time // access token -> expiry
}

// NewProvider constructs a mock auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("mock auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("mock auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		user: domainauth.AuthUser{
			ID:        cfg.UserID,
			Email:     cfg.Email,
			FullName:  cfg.FullName,
			CreatedAt: time.Now(),
		},
		sessionDuration: dur,
		issued:          make(map[string]time.Time),
	}, nil
}

var _ ports.CredentialProvider = (*Provider)(nil)

// SignUp accepts any registration and returns a live session immediately.
func (p *Provider) SignUp(_ context.Context, email, _, fullName string) (*ports.SignUpOutcome, error) {
	user := p.user
	if email != "" {
		user.Email = email
	}
	if fullName != "" {
		user.FullName = fullName
	}

	sess, err := p.issue()
	if err != nil {
		return nil, err
	}
	return &ports.SignUpOutcome{
		Session:       sess,
		User:          &user,
		UserCreatedAt: time.Now(),
	}, nil
}

// SignInWithPassword accepts any credentials.
func (p *Provider) SignInWithPassword(_ context.Context, _, _ string) (*domainauth.Session, error) {
	return p.issue()
}

// OAuthAuthorizeURL returns our own callback directly; Exchange ignores the
// placeholder code.
func (p *Provider) OAuthAuthorizeURL(_ context.Context, _ domainauth.OAuthProvider, _ string) (string, error) {
	return "/auth/callback?code=dev", nil
}

// ExchangeCode ignores the code and issues a session.
func (p *Provider) ExchangeCode(_ context.Context, code string) (*domainauth.Session, error) {
	if code == "" {
		return nil, errors.New("authorization code is required")
	}
	return p.issue()
}

// VerifyEmailToken accepts any token hash and issues a session.
func (p *Provider) VerifyEmailToken(_ context.Context, tokenHash string, _ domainauth.OTPType) (*domainauth.Session, error) {
	if tokenHash == "" {
		return nil, errors.New("token hash is required")
	}
	return p.issue()
}

// SignOut revokes the token.
func (p *Provider) SignOut(_ context.Context, accessToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.issued, accessToken)
	return nil
}

// SendPasswordReset is a no-op.
func (p *Provider) SendPasswordReset(context.Context, string) error { return nil }

// ValidateSession recognizes tokens this provider issued.
func (p *Provider) ValidateSession(_ context.Context, sess domainauth.Session) (*domainauth.AuthUser, *domainauth.Session, error) {
	p.mu.Lock()
	expiry, ok := p.issued[sess.AccessToken]
	p.mu.Unlock()

	if !ok || time.Now().After(expiry) {
		return nil, nil, &ports.ProviderError{Message: "session expired", Status: http.StatusUnauthorized}
	}
	user := p.user
	return &user, nil, nil
}

func (p *Provider) issue() (*domainauth.Session, error) {
	access, err := randomString(32)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := randomString(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(p.sessionDuration)
	p.mu.Lock()
	p.issued[access] = expiresAt
	p.mu.Unlock()

	return &domainauth.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
