package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/spendwise/spendwise/internal/domain/auth"
	"github.com/spendwise/spendwise/internal/domain/model"
	apperrors "github.com/spendwise/spendwise/internal/errors"
)

// stubExpenseService is a test double for ExpenseServiceInterface.
type stubExpenseService struct {
	addFunc     func(ctx context.Context, userID string, req *model.CreateExpenseRequest) (*model.Expense, error)
	recentFunc  func(ctx context.Context, userID string, limit int) ([]*model.Expense, error)
	getFunc     func(ctx context.Context, userID, id string) (*model.Expense, error)
	deleteFunc  func(ctx context.Context, userID, id string) (bool, error)
	summaryFunc func(ctx context.Context, userID string) (*model.ExpenseSummary, error)
}

func (s *stubExpenseService) Add(ctx context.Context, userID string, req *model.CreateExpenseRequest) (*model.Expense, error) {
	return s.addFunc(ctx, userID, req)
}

func (s *stubExpenseService) Recent(ctx context.Context, userID string, limit int) ([]*model.Expense, error) {
	return s.recentFunc(ctx, userID, limit)
}

func (s *stubExpenseService) Get(ctx context.Context, userID, id string) (*model.Expense, error) {
	return s.getFunc(ctx, userID, id)
}

func (s *stubExpenseService) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.deleteFunc(ctx, userID, id)
}

func (s *stubExpenseService) Summary(ctx context.Context, userID string) (*model.ExpenseSummary, error) {
	return s.summaryFunc(ctx, userID)
}

func authenticatedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := SetUserInContext(req.Context(), &domainauth.AuthUser{ID: "user-1", Email: "user@example.com"})
	return req.WithContext(ctx)
}

func TestExpenseCreate_Returns201(t *testing.T) {
	svc := &stubExpenseService{
		addFunc: func(_ context.Context, userID string, req *model.CreateExpenseRequest) (*model.Expense, error) {
			assert.Equal(t, "user-1", userID)
			return &model.Expense{
				ID:       "exp-1",
				UserID:   userID,
				Amount:   req.Amount,
				Category: req.Category,
				Date:     req.Date,
			}, nil
		},
	}
	h := &ExpenseHandlers{Svc: svc}

	body := `{"amount":12.50,"category":"food","date":"2026-08-20T00:00:00Z","description":"lunch"}`
	w := httptest.NewRecorder()
	h.Create(w, authenticatedRequest(http.MethodPost, "/api/expenses", body))

	assert.Equal(t, http.StatusCreated, w.Code)
	var got model.Expense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "exp-1", got.ID)
	assert.Equal(t, 12.50, got.Amount)
}

func TestExpenseCreate_ValidationErrorIs422WithField(t *testing.T) {
	svc := &stubExpenseService{
		addFunc: func(_ context.Context, _ string, _ *model.CreateExpenseRequest) (*model.Expense, error) {
			return nil, apperrors.ValidationField("amount", "Amount must be greater than 0")
		},
	}
	h := &ExpenseHandlers{Svc: svc}

	body := `{"amount":-1,"category":"food","date":"2026-08-20T00:00:00Z"}`
	w := httptest.NewRecorder()
	h.Create(w, authenticatedRequest(http.MethodPost, "/api/expenses", body))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "amount", resp["field"])
	assert.Equal(t, "Amount must be greater than 0", resp["message"])
}

func TestExpenseRecent_ParsesLimit(t *testing.T) {
	svc := &stubExpenseService{
		recentFunc: func(_ context.Context, _ string, limit int) ([]*model.Expense, error) {
			assert.Equal(t, 5, limit)
			return []*model.Expense{{ID: "exp-1"}, {ID: "exp-2"}}, nil
		},
	}
	h := &ExpenseHandlers{Svc: svc}

	w := httptest.NewRecorder()
	h.Recent(w, authenticatedRequest(http.MethodGet, "/api/expenses/recent?limit=5", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Expenses []*model.Expense `json:"expenses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Expenses, 2)
}

func TestExpenseRecent_RejectsBadLimit(t *testing.T) {
	h := &ExpenseHandlers{Svc: &stubExpenseService{}}

	for _, limit := range []string{"abc", "-1"} {
		w := httptest.NewRecorder()
		h.Recent(w, authenticatedRequest(http.MethodGet, "/api/expenses/recent?limit="+limit, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit %q", limit)
	}
}

func TestExpenseSummary_ReturnsAggregates(t *testing.T) {
	svc := &stubExpenseService{
		summaryFunc: func(_ context.Context, userID string) (*model.ExpenseSummary, error) {
			assert.Equal(t, "user-1", userID)
			return &model.ExpenseSummary{Total: 321.75, Count: 14}, nil
		},
	}
	h := &ExpenseHandlers{Svc: svc}

	w := httptest.NewRecorder()
	h.Summary(w, authenticatedRequest(http.MethodGet, "/api/expenses/summary", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	var got model.ExpenseSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 321.75, got.Total)
	assert.Equal(t, int64(14), got.Count)
}

func TestExpenseGet_ReturnsExpense(t *testing.T) {
	svc := &stubExpenseService{
		getFunc: func(_ context.Context, userID, id string) (*model.Expense, error) {
			assert.Equal(t, "user-1", userID)
			assert.Equal(t, "exp-1", id)
			return &model.Expense{ID: "exp-1", UserID: userID, Amount: 9.99, Category: "food"}, nil
		},
	}
	h := &ExpenseHandlers{Svc: svc}

	req := authenticatedRequest(http.MethodGet, "/api/expenses/exp-1", "")
	req.SetPathValue("id", "exp-1")
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got model.Expense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "exp-1", got.ID)
	assert.Equal(t, 9.99, got.Amount)
}

func TestExpenseGet_MissingRowIs404(t *testing.T) {
	svc := &stubExpenseService{
		getFunc: func(_ context.Context, _, _ string) (*model.Expense, error) {
			return nil, apperrors.NotFound("expense not found")
		},
	}
	h := &ExpenseHandlers{Svc: svc}

	req := authenticatedRequest(http.MethodGet, "/api/expenses/ghost", "")
	req.SetPathValue("id", "ghost")
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestExpenseDelete_Returns204(t *testing.T) {
	svc := &stubExpenseService{
		deleteFunc: func(_ context.Context, userID, id string) (bool, error) {
			assert.Equal(t, "exp-1", id)
			return true, nil
		},
	}
	h := &ExpenseHandlers{Svc: svc}

	req := authenticatedRequest(http.MethodDelete, "/api/expenses/exp-1", "")
	req.SetPathValue("id", "exp-1")
	w := httptest.NewRecorder()
	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestExpenseDelete_MissingRowIs404(t *testing.T) {
	svc := &stubExpenseService{
		deleteFunc: func(_ context.Context, _, _ string) (bool, error) {
			return false, nil
		},
	}
	h := &ExpenseHandlers{Svc: svc}

	req := authenticatedRequest(http.MethodDelete, "/api/expenses/ghost", "")
	req.SetPathValue("id", "ghost")
	w := httptest.NewRecorder()
	h.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWriteAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperrors.NotFound("expense not found"), http.StatusNotFound},
		{"conflict", apperrors.Conflict("duplicate"), http.StatusConflict},
		{"validation", apperrors.Validation("bad input"), http.StatusUnprocessableEntity},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeAppError(w, tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
