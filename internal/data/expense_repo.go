package data

// Package data contains repositories backed by PostgreSQL and Redis.

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spendwise/spendwise/internal/data/pgxutil"
	"github.com/spendwise/spendwise/internal/domain/model"
	apperrors "github.com/spendwise/spendwise/internal/errors"
)

const defaultRecentLimit = 10

// ExpenseRepo provides database operations for expenses. Every query is
// scoped to a user id; row-level security backstops the same rule in the
// database.
type ExpenseRepo struct {
	DB *sql.DB
}

// NewExpenseRepo creates a new ExpenseRepo.
func NewExpenseRepo(db *sql.DB) *ExpenseRepo {
	return &ExpenseRepo{DB: db}
}

// Create inserts a new expense for the given user.
func (r *ExpenseRepo) Create(ctx context.Context, userID string, req *model.CreateExpenseRequest) (*model.Expense, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("user is required")
	}
	if req == nil {
		return nil, apperrors.Validation("create expense request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var description *string
	if trimmed := strings.TrimSpace(req.Description); trimmed != "" {
		description = &trimmed
	}

	var out model.Expense
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO expenses (user_id, amount, category, date, description)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, user_id, amount, category, date, description, created_at, updated_at
		`, userID, req.Amount, req.Category, req.Date, description)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Expense])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Recent retrieves the user's most recent expenses ordered by expense date.
func (r *ExpenseRepo) Recent(ctx context.Context, userID string, limit int) ([]*model.Expense, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("user is required")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var rowsOut []model.Expense
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, expenseRecentQuery, userID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Expense])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	res := make([]*model.Expense, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// GetByID retrieves an expense by id, scoped to the owning user.
func (r *ExpenseRepo) GetByID(ctx context.Context, userID, id string) (*model.Expense, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("user is required")
	}
	// A malformed id can never match a uuid column; skip the round trip and
	// the 22P02 cast error it would produce.
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound("expense not found")
	}

	var out model.Expense
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, expenseGetByIDQuery, userID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Expense])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("expense not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete removes the user's expense by id, reporting whether it existed.
func (r *ExpenseRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	if userID == "" {
		return false, apperrors.Unauthorized("user is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM expenses WHERE user_id = $1 AND id = $2`, userID, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}

// SumTotal returns the sum of the user's expense amounts.
func (r *ExpenseRepo) SumTotal(ctx context.Context, userID string) (float64, error) {
	if userID == "" {
		return 0, apperrors.Unauthorized("user is required")
	}

	var total float64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1`, userID,
		).Scan(&total)
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return total, nil
}

// Count returns the number of the user's expenses.
func (r *ExpenseRepo) Count(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, apperrors.Unauthorized("user is required")
	}

	var count int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM expenses WHERE user_id = $1`, userID,
		).Scan(&count)
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return count, nil
}

// SQL query constants for static queries.
const (
	expenseRecentQuery = `
		SELECT id, user_id, amount, category, date, description, created_at, updated_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2`

	expenseGetByIDQuery = `
		SELECT id, user_id, amount, category, date, description, created_at, updated_at
		FROM expenses
		WHERE user_id = $1 AND id = $2`
)
