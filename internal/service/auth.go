package service

// Package service contains the application's orchestration layer between
// HTTP handlers and ports.

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
	"github.com/spendwise/spendwise/internal/ports"
)

const (
	defaultPostAuthPath = "/dashboard"
	loginPath           = "/login"

	// existingAccountWindow is the recency cutoff for the "already
	// registered" heuristic: a user-without-session signup response whose
	// account is older than this is treated as an existing account rather
	// than a pending email confirmation. A slow provider response can
	// misclassify; prefer an explicit provider signal if one ever appears.
	existingAccountWindow = 10 * time.Second

	verifyEmailMessage    = "Please check your email to verify your account."
	accountExistsMessage  = "An account with this email already exists. Please sign in instead."
	noSessionMessage      = "Failed to establish session. Please try again."
	resetRequestedMessage = "If an account exists with this email, you will receive a password reset link."

	authFailedMessage      = "Authentication failed. Please try again."
	exchangeFailedMessage  = "Failed to complete sign in. Please try again."
	invalidLinkMessage     = "Invalid verification link. Please request a new one."
	expiredLinkMessage     = "Verification link has expired. Please request a new one."
	verifyFailedMessage    = "Email verification failed. Please try again."
	oauthStartFailsMessage = "Failed to initiate OAuth sign-in"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService orchestrates the auth flows: credential validation, provider
// calls, error translation, and the redirect-vs-result outcome split.
// Provider failures are absorbed here; methods return an Outcome instead of
// an error so callers cannot accidentally treat a redirect as a failure.
type AuthService struct {
	provider ports.CredentialProvider
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(provider ports.CredentialProvider, logger *slog.Logger) (*AuthService, error) {
	if provider == nil {
		return nil, errors.New("credential provider is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: provider,
		logger:   logger.With("component", "auth_service"),
	}, nil
}

// SignUpRequest carries the signup form fields.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// SignInRequest carries the login form fields.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CallbackParams are the query parameters of the OAuth callback.
type CallbackParams struct {
	Code             string
	Error            string
	ErrorDescription string
	Next             string
}

// ConfirmParams are the query parameters of the email confirmation link.
type ConfirmParams struct {
	TokenHash string
	Type      string
	Next      string
}

// SignUp registers a new user. Validation failures and provider errors come
// back as result outcomes; a provider-issued session comes back as a
// redirect outcome that establishes cookies.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest, redirectTo string) domainauth.Outcome {
	if msg := validateSignUp(req); msg != "" {
		return domainauth.ErrorOutcome(msg)
	}

	outcome, err := s.provider.SignUp(ctx, strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.FullName))
	if err != nil {
		return s.providerFailure(ctx, "signup", err)
	}

	// A user without a session means either a pending email confirmation or
	// an account that already existed; the provider's signal is ambiguous,
	// so the account age decides.
	if outcome.User != nil && outcome.Session == nil {
		if time.Since(outcome.UserCreatedAt) > existingAccountWindow {
			return domainauth.ErrorOutcome(accountExistsMessage)
		}
		return domainauth.SuccessOutcome(verifyEmailMessage)
	}

	if outcome.Session != nil {
		return domainauth.RedirectOutcome(sanitizeRedirect(redirectTo), outcome.Session)
	}

	return domainauth.SuccessOutcome(verifyEmailMessage)
}

// SignIn exchanges credentials for a session. A provider call that succeeds
// without yielding a session is an error, not a success.
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest, redirectTo string) domainauth.Outcome {
	if msg := validateSignIn(req); msg != "" {
		return domainauth.ErrorOutcome(msg)
	}

	sess, err := s.provider.SignInWithPassword(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return s.providerFailure(ctx, "sign in", err)
	}
	if sess == nil {
		s.logger.ErrorContext(ctx, "sign in succeeded but no session returned")
		return domainauth.ErrorOutcome(noSessionMessage)
	}

	return domainauth.RedirectOutcome(sanitizeRedirect(redirectTo), sess)
}

// SignInWithOAuth starts the OAuth flow. On success the outcome redirects
// the browser to the provider's authorize URL (a full-page navigation away
// from this origin); no session is established yet.
func (s *AuthService) SignInWithOAuth(ctx context.Context, provider domainauth.OAuthProvider, callbackURL string) domainauth.Outcome {
	authURL, err := s.provider.OAuthAuthorizeURL(ctx, provider, callbackURL)
	if err != nil {
		return s.providerFailure(ctx, "oauth start", err)
	}
	if authURL == "" {
		return domainauth.ErrorOutcome(oauthStartFailsMessage)
	}
	return domainauth.Outcome{Redirect: &domainauth.Redirect{Location: authURL}}
}

// SignOut revokes the session at the provider and clears cookies. Revocation
// failures are logged but never block the local sign-out.
func (s *AuthService) SignOut(ctx context.Context, sess domainauth.Session) domainauth.Outcome {
	if sess.AccessToken != "" {
		if err := s.provider.SignOut(ctx, sess.AccessToken); err != nil {
			s.logger.WarnContext(ctx, "provider sign out failed", "err", err)
		}
	}
	return domainauth.SignOutOutcome("/")
}

// ResetPassword requests a password reset email. The success message never
// reveals whether the address is registered.
func (s *AuthService) ResetPassword(ctx context.Context, email string) domainauth.Outcome {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return domainauth.ErrorOutcome("Please enter a valid email address")
	}

	if err := s.provider.SendPasswordReset(ctx, email); err != nil {
		return s.providerFailure(ctx, "password reset", err)
	}

	return domainauth.SuccessOutcome(resetRequestedMessage)
}

// CompleteOAuth finishes the OAuth flow from the provider's callback
// redirect. Every path out of here is a redirect: errors land on the login
// page with an error query parameter, success lands on the next target with
// session cookies established.
func (s *AuthService) CompleteOAuth(ctx context.Context, params CallbackParams) domainauth.Outcome {
	if params.Error != "" {
		s.logger.ErrorContext(ctx, "oauth callback error", "error", params.Error, "description", params.ErrorDescription)
		description := params.ErrorDescription
		if description == "" {
			description = params.Error
		}
		return domainauth.RedirectOutcome(loginErrorURL(description), nil)
	}

	if params.Code == "" {
		s.logger.ErrorContext(ctx, "no code provided in oauth callback")
		return domainauth.RedirectOutcome(loginErrorURL(authFailedMessage), nil)
	}

	sess, err := s.provider.ExchangeCode(ctx, params.Code)
	if err != nil {
		s.logger.ErrorContext(ctx, "code exchange failed", "err", err)
		return domainauth.RedirectOutcome(loginErrorURL(exchangeFailedMessage), nil)
	}

	return domainauth.RedirectOutcome(sanitizeRedirect(params.Next), sess)
}

// ConfirmEmail finishes email verification from the confirmation link.
// Success redirects to the next target with a one-time verified marker so
// the destination can show a confirmation banner.
func (s *AuthService) ConfirmEmail(ctx context.Context, params ConfirmParams) domainauth.Outcome {
	if params.TokenHash == "" || params.Type == "" {
		s.logger.ErrorContext(ctx, "missing token_hash or type in email confirmation")
		return domainauth.RedirectOutcome(loginErrorURL(invalidLinkMessage), nil)
	}

	sess, err := s.provider.VerifyEmailToken(ctx, params.TokenHash, domainauth.OTPType(params.Type))
	if err != nil {
		s.logger.ErrorContext(ctx, "email verification failed", "err", err)
		return domainauth.RedirectOutcome(loginErrorURL(classifyVerifyError(err)), nil)
	}

	target := sanitizeRedirect(params.Next)
	if strings.Contains(target, "?") {
		target += "&verified=true"
	} else {
		target += "?verified=true"
	}
	return domainauth.RedirectOutcome(target, sess)
}

// RefreshSession validates the cookie session with the provider. A non-nil
// rotated session must be re-persisted by the caller.
func (s *AuthService) RefreshSession(ctx context.Context, sess domainauth.Session) (*domainauth.AuthUser, *domainauth.Session, error) {
	return s.provider.ValidateSession(ctx, sess)
}

// providerFailure logs the raw provider error and converts it to a
// user-safe result outcome.
func (s *AuthService) providerFailure(ctx context.Context, op string, err error) domainauth.Outcome {
	s.logger.ErrorContext(ctx, op+" failed", "err", err)

	var providerErr *ports.ProviderError
	if errors.As(err, &providerErr) {
		return domainauth.ErrorOutcome(translateAuthError(providerErr.Message))
	}
	if errors.Is(err, ports.ErrUnsupported) {
		return domainauth.ErrorOutcome(translateAuthError(err.Error()))
	}
	return domainauth.ErrorOutcome(defaultAuthErrorMessage)
}

func validateSignUp(req SignUpRequest) string {
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		return "Please enter a valid email address"
	}
	if len(req.Password) < 6 {
		return "Password must be at least 6 characters long."
	}
	if strings.TrimSpace(req.FullName) == "" {
		return "Please enter your full name"
	}
	return ""
}

func validateSignIn(req SignInRequest) string {
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		return "Please enter a valid email address"
	}
	if req.Password == "" {
		return "Please enter your password"
	}
	return ""
}

// classifyVerifyError maps a token verification failure to a user-facing
// message by substring.
func classifyVerifyError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired"):
		return expiredLinkMessage
	case strings.Contains(msg, "invalid"):
		return invalidLinkMessage
	default:
		return verifyFailedMessage
	}
}

// sanitizeRedirect confines post-auth redirect targets to same-origin
// relative paths, falling back to the dashboard.
func sanitizeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return defaultPostAuthPath
	}
	return target
}

func loginErrorURL(message string) string {
	return loginPath + "?error=" + url.QueryEscape(message)
}
