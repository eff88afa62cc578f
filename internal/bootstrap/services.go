package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/spendwise/spendwise/config"
	"github.com/spendwise/spendwise/internal/data"
	"github.com/spendwise/spendwise/internal/service"
)

// ServiceDeps contains the shared dependencies for service construction.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Expenses *service.ExpenseService
}

// NewServices initializes all services from shared dependencies.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authSvc, err := BuildAuthService(ctx, deps.Config.Auth, logger)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	expenseSvc, err := service.NewExpenseService(service.ExpenseServiceConfig{
		Repo:       data.NewExpenseRepo(deps.DB),
		Cache:      data.NewRedisCacheRepo(deps.RedisClient),
		SummaryTTL: deps.Config.Cache.SummaryTTL,
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build expense service: %w", err)
	}

	return ServiceContainer{
		Auth:     authSvc,
		Expenses: expenseSvc,
	}, nil
}
