package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spendwise/spendwise/internal/domain/model"
	"github.com/spendwise/spendwise/internal/ports"
)

const (
	summaryCachePrefix = "spendwise:summary:"
	defaultSummaryTTL  = 30 * time.Minute
)

// ExpenseService handles expense recording and the cached dashboard summary.
type ExpenseService struct {
	repo       ports.ExpenseRepository
	cache      ports.CacheRepository
	summaryTTL time.Duration
	logger     *slog.Logger
}

// ExpenseServiceConfig groups ExpenseService dependencies.
type ExpenseServiceConfig struct {
	Repo       ports.ExpenseRepository
	Cache      ports.CacheRepository // optional; summaries are computed fresh when nil
	SummaryTTL time.Duration
	Logger     *slog.Logger
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(cfg ExpenseServiceConfig) (*ExpenseService, error) {
	if cfg.Repo == nil {
		return nil, errors.New("expense repository is required")
	}
	ttl := cfg.SummaryTTL
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{
		repo:       cfg.Repo,
		cache:      cfg.Cache,
		summaryTTL: ttl,
		logger:     logger.With("component", "expense_service"),
	}, nil
}

// Add records a new expense and invalidates the user's cached summary.
func (s *ExpenseService) Add(ctx context.Context, userID string, req *model.CreateExpenseRequest) (*model.Expense, error) {
	expense, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, userID)
	return expense, nil
}

// Recent returns the user's most recent expenses.
func (s *ExpenseService) Recent(ctx context.Context, userID string, limit int) ([]*model.Expense, error) {
	return s.repo.Recent(ctx, userID, limit)
}

// Get returns a single expense owned by the user.
func (s *ExpenseService) Get(ctx context.Context, userID, id string) (*model.Expense, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// Delete removes an expense and invalidates the user's cached summary.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidateSummary(ctx, userID)
	}
	return deleted, nil
}

// Summary returns the user's spending summary, served from cache when fresh.
// Total and count are independent aggregates and are fetched concurrently.
func (s *ExpenseService) Summary(ctx context.Context, userID string) (*model.ExpenseSummary, error) {
	if cached := s.cachedSummary(ctx, userID); cached != nil {
		return cached, nil
	}

	var summary model.ExpenseSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.repo.SumTotal(gctx, userID)
		if err != nil {
			return err
		}
		summary.Total = total
		return nil
	})
	g.Go(func() error {
		count, err := s.repo.Count(gctx, userID)
		if err != nil {
			return err
		}
		summary.Count = count
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.storeSummary(ctx, userID, &summary)
	return &summary, nil
}

// Cache access is best-effort throughout: a cache failure degrades to a
// database read, never to a request failure.

func (s *ExpenseService) cachedSummary(ctx context.Context, userID string) *model.ExpenseSummary {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, summaryCachePrefix+userID)
	if err != nil {
		s.logger.WarnContext(ctx, "summary cache read failed", "err", err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	var summary model.ExpenseSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		s.logger.WarnContext(ctx, "summary cache entry corrupt", "err", err)
		return nil
	}
	return &summary
}

func (s *ExpenseService) storeSummary(ctx context.Context, userID string, summary *model.ExpenseSummary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, summaryCachePrefix+userID, raw, s.summaryTTL); err != nil {
		s.logger.WarnContext(ctx, "summary cache write failed", "err", err)
	}
}

func (s *ExpenseService) invalidateSummary(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Delete(ctx, summaryCachePrefix+userID); err != nil {
		s.logger.WarnContext(ctx, "summary cache invalidation failed", "err", err)
	}
}
