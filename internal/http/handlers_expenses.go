package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/spendwise/spendwise/internal/domain/model"
	apperrors "github.com/spendwise/spendwise/internal/errors"
)

// ExpenseServiceInterface defines the expense operations the handlers drive.
type ExpenseServiceInterface interface {
	Add(ctx context.Context, userID string, req *model.CreateExpenseRequest) (*model.Expense, error)
	Recent(ctx context.Context, userID string, limit int) ([]*model.Expense, error)
	Get(ctx context.Context, userID, id string) (*model.Expense, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	Summary(ctx context.Context, userID string) (*model.ExpenseSummary, error)
}

// ExpenseHandlers provides HTTP handlers for expense operations. All routes
// sit behind RequireAuth, so the user is always present in the context.
type ExpenseHandlers struct {
	Svc ExpenseServiceInterface
}

// Create records a new expense.
// POST /api/expenses.
func (h *ExpenseHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())

	var req model.CreateExpenseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	expense, err := h.Svc.Add(r.Context(), user.ID, &req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, expense)
}

// Recent lists the user's most recent expenses.
// GET /api/expenses/recent?limit=<n>.
func (h *ExpenseHandlers) Recent(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_limit",
				Err:     errors.New("limit must be a non-negative integer"),
			})
			return
		}
		limit = parsed
	}

	expenses, err := h.Svc.Recent(r.Context(), user.ID, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

// Get returns a single expense.
// GET /api/expenses/{id}.
func (h *ExpenseHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())

	expense, err := h.Svc.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, expense)
}

// Summary returns the user's spending totals for the dashboard cards.
// GET /api/expenses/summary.
func (h *ExpenseHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())

	summary, err := h.Svc.Summary(r.Context(), user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// Delete removes one of the user's expenses.
// DELETE /api/expenses/{id}.
func (h *ExpenseHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())

	deleted, err := h.Svc.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("expense not found"),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeAppError maps an application error to an HTTP response.
func writeAppError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeConflict:
		status = http.StatusConflict
	case apperrors.ErrCodeValidation:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body := map[string]string{"error": string(code), "message": appErr.Message}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		WriteJSON(w, status, body)
		return
	}
	WriteError(w, ErrorParams{Code: status, ErrCode: string(code), Err: err})
}
