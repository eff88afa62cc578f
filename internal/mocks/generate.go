// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// our repository interfaces. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockExpenseRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(expense, nil)
package mocks

// Generate mock for ExpenseRepository interface from internal/ports.
// This creates MockExpenseRepository with methods for all ExpenseRepository interface methods:
// Create, Recent, GetByID, Delete, SumTotal, Count
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=expense_repository_mock.go github.com/spendwise/spendwise/internal/ports ExpenseRepository
