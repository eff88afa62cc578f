package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"time"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
	"github.com/spendwise/spendwise/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialProvider = (*MockCredentialProvider)(nil)
	_ ports.CacheRepository    = (*MemoryCache)(nil)
)

// MockCredentialProvider simulates an identity provider for tests. Each
// operation can be overridden via the corresponding func field; unset
// operations return the deterministic defaults below.
type MockCredentialProvider struct {
	SignUpFunc             func(ctx context.Context, email, password, fullName string) (*ports.SignUpOutcome, error)
	SignInFunc             func(ctx context.Context, email, password string) (*domainauth.Session, error)
	OAuthAuthorizeURLFunc  func(ctx context.Context, provider domainauth.OAuthProvider, redirectTo string) (string, error)
	ExchangeCodeFunc       func(ctx context.Context, code string) (*domainauth.Session, error)
	VerifyEmailTokenFunc   func(ctx context.Context, tokenHash string, otpType domainauth.OTPType) (*domainauth.Session, error)
	SignOutFunc            func(ctx context.Context, accessToken string) error
	SendPasswordResetFunc  func(ctx context.Context, email string) error
	ValidateSessionFunc    func(ctx context.Context, sess domainauth.Session) (*domainauth.AuthUser, *domainauth.Session, error)

	// SignOutCalls records access tokens passed to SignOut.
	SignOutCalls []string
	// ResetEmails records addresses passed to SendPasswordReset.
	ResetEmails []string
}

// DefaultSession returns the session the mock issues when no override is set.
func DefaultSession() *domainauth.Session {
	return &domainauth.Session{
		AccessToken:  "mock-access",
		RefreshToken: "mock-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

// DefaultUser returns the user the mock resolves when no override is set.
func DefaultUser() *domainauth.AuthUser {
	return &domainauth.AuthUser{
		ID:        "mock-user-1",
		Email:     "mock.user@example.com",
		FullName:  "Mock User",
		CreatedAt: time.Now(),
	}
}

func (m *MockCredentialProvider) SignUp(ctx context.Context, email, password, fullName string) (*ports.SignUpOutcome, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, email, password, fullName)
	}
	return &ports.SignUpOutcome{
		Session:       DefaultSession(),
		User:          DefaultUser(),
		UserCreatedAt: time.Now(),
	}, nil
}

func (m *MockCredentialProvider) SignInWithPassword(ctx context.Context, email, password string) (*domainauth.Session, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	return DefaultSession(), nil
}

func (m *MockCredentialProvider) OAuthAuthorizeURL(ctx context.Context, provider domainauth.OAuthProvider, redirectTo string) (string, error) {
	if m.OAuthAuthorizeURLFunc != nil {
		return m.OAuthAuthorizeURLFunc(ctx, provider, redirectTo)
	}
	return "https://mock-idp/authorize?provider=" + string(provider), nil
}

func (m *MockCredentialProvider) ExchangeCode(ctx context.Context, code string) (*domainauth.Session, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return DefaultSession(), nil
}

func (m *MockCredentialProvider) VerifyEmailToken(ctx context.Context, tokenHash string, otpType domainauth.OTPType) (*domainauth.Session, error) {
	if m.VerifyEmailTokenFunc != nil {
		return m.VerifyEmailTokenFunc(ctx, tokenHash, otpType)
	}
	return DefaultSession(), nil
}

func (m *MockCredentialProvider) SignOut(ctx context.Context, accessToken string) error {
	m.SignOutCalls = append(m.SignOutCalls, accessToken)
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, accessToken)
	}
	return nil
}

func (m *MockCredentialProvider) SendPasswordReset(ctx context.Context, email string) error {
	m.ResetEmails = append(m.ResetEmails, email)
	if m.SendPasswordResetFunc != nil {
		return m.SendPasswordResetFunc(ctx, email)
	}
	return nil
}

func (m *MockCredentialProvider) ValidateSession(ctx context.Context, sess domainauth.Session) (*domainauth.AuthUser, *domainauth.Session, error) {
	if m.ValidateSessionFunc != nil {
		return m.ValidateSessionFunc(ctx, sess)
	}
	return DefaultUser(), nil, nil
}

// MemoryCache is an in-memory CacheRepository for unit tests. TTLs are
// honored on read.
type MemoryCache struct {
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry)}
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = cacheEntry{value: append([]byte(nil), value...), expiresAt: expiresAt}
	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, nil
	}
	return entry.value, nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) (bool, error) {
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}
