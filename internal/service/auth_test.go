package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
	mockauth "github.com/spendwise/spendwise/internal/mocks/auth"
	"github.com/spendwise/spendwise/internal/ports"
)

func newAuthService(t *testing.T, provider *mockauth.MockCredentialProvider) *AuthService {
	t.Helper()
	svc, err := NewAuthService(provider, slog.Default())
	require.NoError(t, err)
	return svc
}

func TestNewAuthServiceRequiresProvider(t *testing.T) {
	_, err := NewAuthService(nil, nil)
	assert.Error(t, err)
}

func TestSignUpValidation(t *testing.T) {
	svc := newAuthService(t, &mockauth.MockCredentialProvider{})
	ctx := context.Background()

	out := svc.SignUp(ctx, SignUpRequest{Email: "not-an-email", Password: "secret123", FullName: "A"}, "")
	require.NotNil(t, out.Result)
	assert.False(t, out.Result.Success)
	assert.Equal(t, "Please enter a valid email address", out.Result.Error)

	out = svc.SignUp(ctx, SignUpRequest{Email: "a@example.com", Password: "short", FullName: "A"}, "")
	require.NotNil(t, out.Result)
	assert.Equal(t, "Password must be at least 6 characters long.", out.Result.Error)

	out = svc.SignUp(ctx, SignUpRequest{Email: "a@example.com", Password: "secret123", FullName: "  "}, "")
	require.NotNil(t, out.Result)
	assert.Equal(t, "Please enter your full name", out.Result.Error)
}

func TestSignUpWithSessionRedirects(t *testing.T) {
	svc := newAuthService(t, &mockauth.MockCredentialProvider{})

	out := svc.SignUp(context.Background(), SignUpRequest{
		Email: "a@example.com", Password: "secret123", FullName: "Alice",
	}, "")
	require.NotNil(t, out.Redirect)
	assert.Nil(t, out.Result)
	assert.Equal(t, "/dashboard", out.Redirect.Location)
	require.NotNil(t, out.Redirect.Session)
	assert.Equal(t, "mock-access", out.Redirect.Session.AccessToken)
}

func TestSignUpPendingConfirmation(t *testing.T) {
	provider := &mockauth.MockCredentialProvider{
		SignUpFunc: func(context.Context, string, string, string) (*ports.SignUpOutcome, error) {
			return &ports.SignUpOutcome{
				User:          mockauth.DefaultUser(),
				UserCreatedAt: time.Now().Add(-2 * time.Second),
			}, nil
		},
	}
	svc := newAuthService(t, provider)

	out := svc.SignUp(context.Background(), SignUpRequest{
		Email: "a@example.com", Password: "secret123", FullName: "Alice",
	}, "")
	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Success)
	assert.Equal(t, "Please check your email to verify your account.", out.Result.Message)
}

func TestSignUpExistingAccountHeuristic(t *testing.T) {
	provider := &mockauth.MockCredentialProvider{
		SignUpFunc: func(context.Context, string, string, string) (*ports.SignUpOutcome, error) {
			return &ports.SignUpOutcome{
				User:          mockauth.DefaultUser(),
				UserCreatedAt: time.Now().Add(-time.Hour),
			}, nil
		},
	}
	svc := newAuthService(t, provider)

	out := svc.SignUp(context.Background(), SignUpRequest{
		Email: "a@example.com", Password: "secret123", FullName: "Alice",
	}, "")
	require.NotNil(t, out.Result)
	assert.False(t, out.Result.Success)
	assert.Equal(t, "An account with this email already exists. Please sign in instead.", out.Result.Error)
}

func TestSignUpTranslatesProviderError(t *testing.T) {
	provider := &mockauth.MockCredentialProvider{
		SignUpFunc: func(context.Context, string, string, string) (*ports.SignUpOutcome, error) {
			return nil, &ports.ProviderError{Message: "User already registered", Status: 400}
		},
	}
	svc := newAuthService(t, provider)

	out := svc.SignUp(context.Background(), SignUpRequest{
		Email: "a@example.com", Password: "secret123", FullName: "Alice",
	}, "")
	require.NotNil(t, out.Result)
	assert.Equal(t, "An account with this email already exists. Please sign in instead.", out.Result.Error)
}

func TestSignInSuccessRedirects(t *testing.T) {
	svc := newAuthService(t, &mockauth.MockCredentialProvider{})

	out := svc.SignIn(context.Background(), SignInRequest{Email: "a@example.com", Password: "pw"}, "/dashboard/settings")
	require.NotNil(t, out.Redirect)
	assert.Equal(t, "/dashboard/settings", out.Redirect.Location)
	require.NotNil(t, out.Redirect.Session)
}

func TestSignInNoSessionIsAnError(t *testing.T) {
	provider := &mockauth.MockCredentialProvider{
		SignInFunc: func(context.Context, string, string) (*domainauth.Session, error) {
			return nil, nil
		},
	}
	svc := newAuthService(t, provider)

	out := svc.SignIn(context.Background(), SignInRequest{Email: "a@example.com", Password: "pw"}, "")
	require.NotNil(t, out.Result)
	assert.False(t, out.Result.Success)
	assert.Equal(t, "Failed to establish session. Please try again.", out.Result.Error)
}

func TestSignInTranslatesProviderError(t *testing.T) {
	provider := &mockauth.MockCredentialProvider{
		SignInFunc: func(context.Context, string, string) (*domainauth.Session, error) {
			return nil, &ports.ProviderError{Message: "Invalid login credentials", Status: 400}
		},
	}
	svc := newAuthService(t, provider)

	out := svc.SignIn(context.Background(), SignInRequest{Email: "a@example.com", Password: "wrong"}, "")
	require.NotNil(t, out.Result)
	assert.Equal(t, "Invalid email or password. Please try again.", out.Result.Error)
}

func TestSignInRejectsAbsoluteRedirectTargets(t *testing.T) {
	svc := newAuthService(t, &mockauth.MockCredentialProvider{})

	for _, target := range []string{"https://evil.example.com", "//evil.example.com", "evil"} {
		out := svc.SignIn(context.Background(), SignInRequest{Email: "a@example.com", Password: "pw"}, target)
		require.NotNil(t, out.Redirect, target)
		assert.Equal(t, "/dashboard", out.Redirect.Location, target)
	}
}

func TestSignInWithOAuthRedirectsToProvider(t *testing.T) {
	svc := newAuthService(t, &mockauth.MockCredentialProvider{})

	out := svc.SignInWithOAuth(context.Background(), domainauth.OAuthProviderGoogle, "http://localhost:8080/auth/callback")
	require.NotNil(t, out.Redirect)
	assert.Nil(t, out.Redirect.Session)
	assert.Contains(t, out.Redirect.Location, "https://mock-idp/authorize")
}

func TestSignInWithOAuthTranslatesError(t *testing.T) {
	provider := &mockauth.MockCredentialProvider{
		OAuthAuthorizeURLFunc: func(context.Context, domainauth.OAuthProvider, string) (string, error) {
			return "", &ports.ProviderError{Message: "OAuth provider error: unreachable"}
		},
	}
	svc := newAuthService(t, provider)

	out := svc.SignInWithOAuth(context.Background(), domainauth.OAuthProviderGoogle, "")
	require.NotNil(t, out.Result)
	assert.Equal(t, "Unable to connect to the authentication provider. Please try again.", out.Result.Error)
}

func TestSignOutAlwaysClearsSession(t *testing.T) {
	provider := &mockauth.MockCredentialProvider{
		SignOutFunc: func(context.Context, string) error {
			return &ports.ProviderError{Message: "revocation endpoint down", Status: 502}
		},
	}
	svc := newAuthService(t, provider)

	out := svc.SignOut(context.Background(), domainauth.Session{AccessToken: "at-1"})
	require.NotNil(t, out.Redirect)
	assert.True(t, out.Redirect.ClearSession)
	assert.Equal(t, "/", out.Redirect.Location)
	assert.Equal(t, []string{"at-1"}, provider.SignOutCalls)
}

func TestResetPasswordAntiEnumeration(t *testing.T) {
	provider := &mockauth.MockCredentialProvider{}
	svc := newAuthService(t, provider)
	ctx := context.Background()

	// Registered or not, the reply is identical.
	out := svc.ResetPassword(ctx, "registered@example.com")
	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Success)
	assert.Equal(t, "If an account exists with this email, you will receive a password reset link.", out.Result.Message)

	out = svc.ResetPassword(ctx, "ghost@example.com")
	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Success)
	assert.Equal(t, "If an account exists with this email, you will receive a password reset link.", out.Result.Message)

	assert.Equal(t, []string{"registered@example.com", "ghost@example.com"}, provider.ResetEmails)
}

func TestResetPasswordValidatesEmailLocally(t *testing.T) {
	provider := &mockauth.MockCredentialProvider{}
	svc := newAuthService(t, provider)

	out := svc.ResetPassword(context.Background(), "not an email")
	require.NotNil(t, out.Result)
	assert.Equal(t, "Please enter a valid email address", out.Result.Error)
	assert.Empty(t, provider.ResetEmails)
}

func TestCompleteOAuthProviderErrorParam(t *testing.T) {
	svc := newAuthService(t, &mockauth.MockCredentialProvider{})

	out := svc.CompleteOAuth(context.Background(), CallbackParams{
		Error:            "access_denied",
		ErrorDescription: "User denied access",
	})
	require.NotNil(t, out.Redirect)
	assert.Nil(t, out.Redirect.Session)
	assert.Equal(t, "/login?error=User+denied+access", out.Redirect.Location)
}

func TestCompleteOAuthMissingCode(t *testing.T) {
	svc := newAuthService(t, &mockauth.MockCredentialProvider{})

	out := svc.CompleteOAuth(context.Background(), CallbackParams{})
	require.NotNil(t, out.Redirect)
	assert.Equal(t, "/login?error=Authentication+failed.+Please+try+again.", out.Redirect.Location)
}

func TestCompleteOAuthExchangeFailure(t *testing.T) {
	provider := &mockauth.MockCredentialProvider{
		ExchangeCodeFunc: func(context.Context, string) (*domainauth.Session, error) {
			return nil, &ports.ProviderError{Message: "flow state not found", Status: 404}
		},
	}
	svc := newAuthService(t, provider)

	out := svc.CompleteOAuth(context.Background(), CallbackParams{Code: "code-1"})
	require.NotNil(t, out.Redirect)
	assert.Equal(t, "/login?error=Failed+to+complete+sign+in.+Please+try+again.", out.Redirect.Location)
}

func TestCompleteOAuthSuccess(t *testing.T) {
	svc := newAuthService(t, &mockauth.MockCredentialProvider{})

	out := svc.CompleteOAuth(context.Background(), CallbackParams{Code: "code-1", Next: "/reset-password"})
	require.NotNil(t, out.Redirect)
	assert.Equal(t, "/reset-password", out.Redirect.Location)
	require.NotNil(t, out.Redirect.Session)
}

func TestConfirmEmailMissingParams(t *testing.T) {
	svc := newAuthService(t, &mockauth.MockCredentialProvider{})
	ctx := context.Background()

	for _, params := range []ConfirmParams{
		{},
		{TokenHash: "hash"},
		{Type: "signup"},
	} {
		out := svc.ConfirmEmail(ctx, params)
		require.NotNil(t, out.Redirect)
		assert.Equal(t, "/login?error=Invalid+verification+link.+Please+request+a+new+one.", out.Redirect.Location)
	}
}

func TestConfirmEmailClassifiesFailures(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantURL string
	}{
		{
			name:    "expired token",
			raw:     "Email link is expired",
			wantURL: "/login?error=Verification+link+has+expired.+Please+request+a+new+one.",
		},
		{
			name:    "invalid token",
			raw:     "Token is invalid or malformed",
			wantURL: "/login?error=Invalid+verification+link.+Please+request+a+new+one.",
		},
		{
			name:    "anything else",
			raw:     "upstream timeout",
			wantURL: "/login?error=Email+verification+failed.+Please+try+again.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &mockauth.MockCredentialProvider{
				VerifyEmailTokenFunc: func(context.Context, string, domainauth.OTPType) (*domainauth.Session, error) {
					return nil, &ports.ProviderError{Message: tc.raw}
				},
			}
			svc := newAuthService(t, provider)

			out := svc.ConfirmEmail(context.Background(), ConfirmParams{TokenHash: "hash", Type: "signup"})
			require.NotNil(t, out.Redirect)
			assert.Equal(t, tc.wantURL, out.Redirect.Location)
		})
	}
}

func TestConfirmEmailSuccessAddsVerifiedMarker(t *testing.T) {
	svc := newAuthService(t, &mockauth.MockCredentialProvider{})

	out := svc.ConfirmEmail(context.Background(), ConfirmParams{TokenHash: "hash", Type: "signup"})
	require.NotNil(t, out.Redirect)
	assert.Equal(t, "/dashboard?verified=true", out.Redirect.Location)
	require.NotNil(t, out.Redirect.Session)

	out = svc.ConfirmEmail(context.Background(), ConfirmParams{TokenHash: "hash", Type: "signup", Next: "/dashboard?tab=budget"})
	require.NotNil(t, out.Redirect)
	assert.Equal(t, "/dashboard?tab=budget&verified=true", out.Redirect.Location)
}

func TestRefreshSessionPassesThroughRotation(t *testing.T) {
	rotated := &domainauth.Session{AccessToken: "at-new", RefreshToken: "rt-new", ExpiresAt: time.Now().Add(time.Hour)}
	provider := &mockauth.MockCredentialProvider{
		ValidateSessionFunc: func(context.Context, domainauth.Session) (*domainauth.AuthUser, *domainauth.Session, error) {
			return mockauth.DefaultUser(), rotated, nil
		},
	}
	svc := newAuthService(t, provider)

	user, got, err := svc.RefreshSession(context.Background(), domainauth.Session{AccessToken: "at-old", RefreshToken: "rt-old"})
	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", user.ID)
	assert.Equal(t, rotated, got)
}
