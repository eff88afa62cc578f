package model

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/spendwise/spendwise/internal/errors"
)

const maxExpenseDescriptionLen = 255

// ExpenseCategory is the fixed set of spending categories.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryHousing       ExpenseCategory = "housing"
	CategoryUtilities     ExpenseCategory = "utilities"
	CategoryEntertainment ExpenseCategory = "entertainment"
	CategoryHealth        ExpenseCategory = "health"
	CategoryShopping      ExpenseCategory = "shopping"
	CategoryOther         ExpenseCategory = "other"
)

// ExpenseCategories lists every supported category.
var ExpenseCategories = []ExpenseCategory{
	CategoryFood,
	CategoryTransport,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealth,
	CategoryShopping,
	CategoryOther,
}

// Valid reports whether the category is supported.
func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseExpenseCategory normalizes a category string and reports whether it is supported.
func ParseExpenseCategory(value string) (ExpenseCategory, bool) {
	category := ExpenseCategory(strings.ToLower(strings.TrimSpace(value)))
	if category.Valid() {
		return category, true
	}
	return "", false
}

// Expense is a single spending record owned by a user. Ownership is enforced
// both here (user-scoped queries) and by the database's row-level security.
type Expense struct {
	ID          string          `json:"id"                    db:"id"`
	UserID      string          `json:"user_id"               db:"user_id"`
	Amount      float64         `json:"amount"                db:"amount"`
	Category    ExpenseCategory `json:"category"              db:"category"`
	Date        time.Time       `json:"date"                  db:"date"`
	Description *string         `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time       `json:"created_at"            db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"            db:"updated_at"`
}

// CreateExpenseRequest represents parameters to create an Expense.
type CreateExpenseRequest struct {
	Amount      float64         `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
}

// ExpenseSummary aggregates a user's spending for the dashboard cards.
type ExpenseSummary struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// Validate validates CreateExpenseRequest.
func (r *CreateExpenseRequest) Validate() error {
	if r.Amount <= 0 {
		return apperrors.ValidationField("amount", "Amount must be greater than 0")
	}
	if !hasAtMostTwoDecimals(r.Amount) {
		return apperrors.ValidationField("amount", "Amount can have at most 2 decimal places")
	}
	category, ok := ParseExpenseCategory(string(r.Category))
	if !ok {
		return apperrors.ValidationField("category", "Please select a valid category")
	}
	r.Category = category
	if r.Date.IsZero() {
		return apperrors.ValidationField("date", "Date is required")
	}
	if utf8.RuneCountInString(r.Description) > maxExpenseDescriptionLen {
		return apperrors.ValidationField("description", "Description must be at most 255 characters")
	}
	r.Description = strings.TrimSpace(r.Description)
	return nil
}

// hasAtMostTwoDecimals checks the amount against cent precision, tolerating
// float representation noise.
func hasAtMostTwoDecimals(amount float64) bool {
	cents := amount * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}
