package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spendwise/spendwise/config"
	"github.com/spendwise/spendwise/internal/adapters/hosted"
	"github.com/spendwise/spendwise/internal/adapters/mockauth"
	"github.com/spendwise/spendwise/internal/adapters/oidc"
	"github.com/spendwise/spendwise/internal/ports"
	"github.com/spendwise/spendwise/internal/service"
)

// BuildCredentialProvider creates the credential provider for the configured
// auth mode.
//
//nolint:ireturn // the mode switch is the whole point; callers program to the port.
func BuildCredentialProvider(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (ports.CredentialProvider, error) {
	switch cfg.Mode {
	case config.AuthModeHosted:
		provider, err := hosted.NewProvider(hosted.ProviderConfig{
			BaseURL:        cfg.Hosted.BaseURL,
			PublishableKey: cfg.Hosted.PublishableKey,
		})
		if err != nil {
			return nil, fmt.Errorf("build hosted auth provider: %w", err)
		}
		return provider, nil

	case config.AuthModeOIDC:
		provider, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
			Scope:        cfg.OIDC.Scope,
			DiscoveryURL: cfg.OIDC.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build OIDC auth provider: %w", err)
		}
		return provider, nil

	case config.AuthModeMock:
		if logger != nil {
			logger.Warn("mock auth enabled; all sessions resolve to the configured dev user")
		}
		provider, err := mockauth.NewProvider(mockauth.Config{
			UserID:   cfg.Mock.UserID,
			Email:    cfg.Mock.Email,
			FullName: cfg.Mock.FullName,
		})
		if err != nil {
			return nil, fmt.Errorf("build mock auth provider: %w", err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// BuildAuthService creates the auth orchestration service for the configured
// mode.
func BuildAuthService(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (*service.AuthService, error) {
	provider, err := BuildCredentialProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return service.NewAuthService(provider, logger)
}
