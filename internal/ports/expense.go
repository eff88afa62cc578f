package ports

import (
	"context"

	"github.com/spendwise/spendwise/internal/domain/model"
)

// ExpenseRepository is the persistence contract for expenses. Every method
// is scoped to a user id.
type ExpenseRepository interface {
	// Create inserts a new expense for the given user.
	Create(ctx context.Context, userID string, req *model.CreateExpenseRequest) (*model.Expense, error)

	// Recent retrieves the user's most recent expenses ordered by expense date.
	Recent(ctx context.Context, userID string, limit int) ([]*model.Expense, error)

	// GetByID retrieves an expense by id, scoped to the owning user.
	GetByID(ctx context.Context, userID, id string) (*model.Expense, error)

	// Delete removes the user's expense by id, reporting whether it existed.
	Delete(ctx context.Context, userID, id string) (bool, error)

	// SumTotal returns the sum of the user's expense amounts.
	SumTotal(ctx context.Context, userID string) (float64, error)

	// Count returns the number of the user's expenses.
	Count(ctx context.Context, userID string) (int64, error)
}
