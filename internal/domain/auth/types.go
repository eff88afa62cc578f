package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Session is the provider-issued proof of authentication carried in cookies.
// The token pair is opaque to this system: it is never decoded locally, only
// handed back to the identity provider for validation.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthUser is the per-request projection of the provider's user record.
// It exists if and only if the current request carries a valid session;
// it is never persisted locally.
type AuthUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult is the tagged outcome of a non-redirecting auth action.
// Success carries an optional user-facing message ("check your email");
// failure carries a user-safe error string, never a raw provider message.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Redirect is the navigational outcome of an auth action that establishes or
// destroys a session. It is a distinct variant from AuthResult so generic
// error handling structurally cannot swallow it: an action that redirects on
// success never also returns a success value.
type Redirect struct {
	// Location is the target path for a 303 redirect.
	Location string
	// Session, when non-nil, must be persisted to cookies before redirecting.
	Session *Session
	// ClearSession instructs the cookie layer to drop the session cookies.
	ClearSession bool
}

// Outcome is the result of an orchestrated auth action. Exactly one of
// Redirect or Result is set.
type Outcome struct {
	Redirect *Redirect
	Result   *AuthResult
}

// RedirectOutcome builds a session-establishing redirect outcome.
func RedirectOutcome(location string, sess *Session) Outcome {
	return Outcome{Redirect: &Redirect{Location: location, Session: sess}}
}

// SignOutOutcome builds a session-clearing redirect outcome.
func SignOutOutcome(location string) Outcome {
	return Outcome{Redirect: &Redirect{Location: location, ClearSession: true}}
}

// SuccessOutcome builds a non-redirecting success with a user-facing message.
func SuccessOutcome(message string) Outcome {
	return Outcome{Result: &AuthResult{Success: true, Message: message}}
}

// ErrorOutcome builds a non-redirecting failure with a user-safe error string.
func ErrorOutcome(message string) Outcome {
	return Outcome{Result: &AuthResult{Success: false, Error: message}}
}

// OTPType identifies the kind of email token being verified.
// Values mirror the provider's verification types and arrive verbatim on the
// confirmation link's "type" query parameter.
type OTPType string

const (
	OTPTypeSignup   OTPType = "signup"
	OTPTypeEmail    OTPType = "email"
	OTPTypeRecovery OTPType = "recovery"
	OTPTypeInvite   OTPType = "invite"
)

// OAuthProvider names a social sign-in provider supported by the identity
// service. The set is provider-defined; these are the ones the UI offers.
type OAuthProvider string

const (
	OAuthProviderGoogle OAuthProvider = "google"
	OAuthProviderGitHub OAuthProvider = "github"
)

// ValidOAuthProvider reports whether the given name is a supported provider.
func ValidOAuthProvider(name string) bool {
	switch OAuthProvider(name) {
	case OAuthProviderGoogle, OAuthProviderGitHub:
		return true
	default:
		return false
	}
}
