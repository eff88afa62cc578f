package hosted

// Package hosted adapts a hosted identity service (GoTrue-style REST API)
// to the CredentialProvider port. The service owns credential storage,
// password hashing, OAuth handshakes, and email-token issuance; this adapter
// is a thin call contract with normalized error translation left to the
// service layer.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
	"github.com/spendwise/spendwise/internal/ports"
)

const defaultRequestTimeout = 30 * time.Second

// Provider implements ports.CredentialProvider against a hosted identity API.
type Provider struct {
	baseURL        string
	publishableKey string
	httpClient     *http.Client
}

// ProviderConfig holds configuration for the hosted provider.
type ProviderConfig struct {
	// BaseURL is the provider project URL, without the /auth/v1 suffix.
	BaseURL string
	// PublishableKey is sent as the apikey header; it is safe for browser
	// exposure and keeps row-level security in force.
	PublishableKey string
	// HTTPClient is optional; a 30s-timeout client is used when nil. The
	// platform has no implicit request bound, so an explicit timeout is
	// required here: a hung provider call must surface as an error.
	HTTPClient *http.Client
}

// NewProvider creates a new hosted identity provider adapter.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if config.PublishableKey == "" {
		return nil, errors.New("publishable key is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	return &Provider{
		baseURL:        strings.TrimSuffix(config.BaseURL, "/"),
		publishableKey: config.PublishableKey,
		httpClient:     httpClient,
	}, nil
}

var _ ports.CredentialProvider = (*Provider)(nil)

// sessionResponse is the provider's token payload shape.
type sessionResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at"`
	User         *userResponse `json:"user"`
}

// userResponse is the provider's user record shape.
type userResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UserMetadata struct {
		FullName  string `json:"full_name"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

// errorResponse covers the error body shapes the provider emits.
type errorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *errorResponse) text() string {
	for _, candidate := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorCode} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// SignUp registers a new email/password user.
func (p *Provider) SignUp(ctx context.Context, email, password, fullName string) (*ports.SignUpOutcome, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": fullName},
	}

	var resp sessionResponse
	if err := p.post(ctx, "/auth/v1/signup", nil, body, &resp); err != nil {
		return nil, err
	}

	outcome := &ports.SignUpOutcome{Session: resp.session()}
	if resp.User != nil {
		outcome.User = resp.User.authUser()
		outcome.UserCreatedAt = resp.User.CreatedAt
	} else if outcome.Session == nil {
		return nil, &ports.ProviderError{Message: "signup response contained neither user nor session"}
	}
	return outcome, nil
}

// SignInWithPassword exchanges credentials for a session.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*domainauth.Session, error) {
	body := map[string]any{"email": email, "password": password}

	var resp sessionResponse
	if err := p.post(ctx, "/auth/v1/token", url.Values{"grant_type": {"password"}}, body, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

// OAuthAuthorizeURL builds the provider's authorize endpoint URL for the
// given social provider. The provider performs the handshake and redirects
// the browser back to redirectTo with an authorization code.
func (p *Provider) OAuthAuthorizeURL(_ context.Context, provider domainauth.OAuthProvider, redirectTo string) (string, error) {
	if !domainauth.ValidOAuthProvider(string(provider)) {
		return "", &ports.ProviderError{Message: fmt.Sprintf("OAuth provider error: unsupported provider %q", provider)}
	}

	query := url.Values{}
	query.Set("provider", string(provider))
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	return p.baseURL + "/auth/v1/authorize?" + query.Encode(), nil
}

// ExchangeCode trades an OAuth authorization code for a session.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (*domainauth.Session, error) {
	if code == "" {
		return nil, errors.New("authorization code is required")
	}
	body := map[string]any{"auth_code": code}

	var resp sessionResponse
	if err := p.post(ctx, "/auth/v1/token", url.Values{"grant_type": {"pkce"}}, body, &resp); err != nil {
		return nil, err
	}
	if sess := resp.session(); sess != nil {
		return sess, nil
	}
	return nil, &ports.ProviderError{Message: "code exchange returned no session"}
}

// VerifyEmailToken redeems an email verification token.
func (p *Provider) VerifyEmailToken(ctx context.Context, tokenHash string, otpType domainauth.OTPType) (*domainauth.Session, error) {
	if tokenHash == "" {
		return nil, errors.New("token hash is required")
	}
	body := map[string]any{"token_hash": tokenHash, "type": string(otpType)}

	var resp sessionResponse
	if err := p.post(ctx, "/auth/v1/verify", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

// SignOut revokes the session identified by the access token.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	req, err := p.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return p.do(req, nil)
}

// SendPasswordReset dispatches a password reset email. The provider responds
// identically for registered and unregistered addresses.
func (p *Provider) SendPasswordReset(ctx context.Context, email string) error {
	return p.post(ctx, "/auth/v1/recover", nil, map[string]any{"email": email}, nil)
}

// ValidateSession asks the provider whether the session is valid and for
// whom. An expired access token is transparently refreshed; the rotated pair
// is returned so the caller can re-persist the cookies — dropping it would
// silently log the user out once the old refresh token ages out.
func (p *Provider) ValidateSession(ctx context.Context, sess domainauth.Session) (*domainauth.AuthUser, *domainauth.Session, error) {
	if sess.AccessToken == "" && sess.RefreshToken == "" {
		return nil, nil, &ports.ProviderError{Message: "no session", Status: http.StatusUnauthorized}
	}

	if sess.AccessToken != "" {
		user, err := p.fetchUser(ctx, sess.AccessToken)
		if err == nil {
			return user, nil, nil
		}
		var providerErr *ports.ProviderError
		if !errors.As(err, &providerErr) || providerErr.Status != http.StatusUnauthorized {
			return nil, nil, err
		}
		// Access token rejected; fall through to the refresh grant.
	}

	if sess.RefreshToken == "" {
		return nil, nil, &ports.ProviderError{Message: "session expired", Status: http.StatusUnauthorized}
	}

	refreshed, err := p.refresh(ctx, sess.RefreshToken)
	if err != nil {
		return nil, nil, err
	}
	if refreshed.User == nil || refreshed.session() == nil {
		return nil, nil, &ports.ProviderError{Message: "refresh returned no session"}
	}
	return refreshed.User.authUser(), refreshed.session(), nil
}

func (p *Provider) fetchUser(ctx context.Context, accessToken string) (*domainauth.AuthUser, error) {
	req, err := p.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var user userResponse
	if err := p.do(req, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, &ports.ProviderError{Message: "user response missing id"}
	}
	return user.authUser(), nil
}

func (p *Provider) refresh(ctx context.Context, refreshToken string) (*sessionResponse, error) {
	body := map[string]any{"refresh_token": refreshToken}

	var resp sessionResponse
	if err := p.post(ctx, "/auth/v1/token", url.Values{"grant_type": {"refresh_token"}}, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *sessionResponse) session() *domainauth.Session {
	if r.AccessToken == "" {
		return nil
	}
	expiresAt := time.Unix(r.ExpiresAt, 0)
	if r.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return &domainauth.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

func (u *userResponse) authUser() *domainauth.AuthUser {
	return &domainauth.AuthUser{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.UserMetadata.FullName,
		AvatarURL: u.UserMetadata.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func (p *Provider) post(ctx context.Context, path string, query url.Values, body any, out any) error {
	req, err := p.newRequest(ctx, http.MethodPost, path, query, body)
	if err != nil {
		return err
	}
	return p.do(req, out)
}

func (p *Provider) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	endpoint := p.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", p.publishableKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (p *Provider) do(req *http.Request, out any) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody errorResponse
		_ = json.Unmarshal(payload, &errBody)
		message := errBody.text()
		if message == "" {
			message = fmt.Sprintf("identity provider returned status %d", resp.StatusCode)
		}
		return &ports.ProviderError{Message: message, Status: resp.StatusCode}
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}
