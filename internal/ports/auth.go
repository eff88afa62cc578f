package ports

// Package ports defines interfaces (hexagonal ports) for auth and caching
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
)

// ErrUnsupported is returned by providers that do not implement an optional
// operation (e.g. password sign-in on an SSO-only deployment).
var ErrUnsupported = errors.New("operation not supported by this auth provider")

// ProviderError carries the raw message returned by the identity provider.
// Raw messages are not a stable contract and must never reach end users;
// the service layer translates them through a fixed table.
type ProviderError struct {
	// Message is the provider's raw error string.
	Message string
	// Status is the HTTP status the provider responded with, when known.
	Status int
}

func (e *ProviderError) Error() string { return e.Message }

// SignUpOutcome is the provider's response to a sign-up call. The provider
// may return a session (email confirmation disabled), or a user without a
// session (confirmation pending, or the account already existed).
type SignUpOutcome struct {
	Session *domainauth.Session
	User    *domainauth.AuthUser
	// UserCreatedAt is the provider-reported creation time of the returned
	// user, used to distinguish fresh sign-ups from existing accounts.
	UserCreatedAt time.Time
}

// CredentialProvider is the call contract to the external identity service.
// Every method is a blocking network call; failures surface immediately and
// are never retried here.
type CredentialProvider interface {
	// SignUp registers a new email/password user with the given display name.
	SignUp(ctx context.Context, email, password, fullName string) (*SignUpOutcome, error)

	// SignInWithPassword exchanges credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*domainauth.Session, error)

	// OAuthAuthorizeURL returns the provider URL to navigate the browser to
	// for the given social provider. redirectTo is the application callback.
	OAuthAuthorizeURL(ctx context.Context, provider domainauth.OAuthProvider, redirectTo string) (string, error)

	// ExchangeCode completes the OAuth flow, trading the authorization code
	// for a session.
	ExchangeCode(ctx context.Context, code string) (*domainauth.Session, error)

	// VerifyEmailToken redeems an email verification token.
	VerifyEmailToken(ctx context.Context, tokenHash string, otpType domainauth.OTPType) (*domainauth.Session, error)

	// SignOut revokes the session identified by the access token.
	SignOut(ctx context.Context, accessToken string) error

	// SendPasswordReset dispatches a password reset email. Whether the
	// address is registered must not be observable from the result.
	SendPasswordReset(ctx context.Context, email string) error

	// ValidateSession asks the provider whether the session is valid and for
	// whom. The provider may rotate the token pair as a side effect; a
	// non-nil refreshed session MUST be re-persisted by the caller.
	ValidateSession(ctx context.Context, sess domainauth.Session) (*domainauth.AuthUser, *domainauth.Session, error)
}

// CacheRepository is a byte-oriented cache with TTL semantics.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) (bool, error)
}
