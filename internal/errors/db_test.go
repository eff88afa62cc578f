package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_Nil(t *testing.T) {
	assert.NoError(t, MapDBError(nil))
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(fmt.Errorf("query: %w", pgx.ErrNoRows))
	assert.Equal(t, ErrCodeNotFound, CodeOf(err))
}

func TestMapDBError_ContextErrors(t *testing.T) {
	assert.Equal(t, ErrCodeTimeout, CodeOf(MapDBError(context.DeadlineExceeded)))
	assert.Equal(t, ErrCodeCanceled, CodeOf(MapDBError(context.Canceled)))
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: "Key (email)=(a@b.co) already exists.",
	}

	err := MapDBError(pgErr)
	require.True(t, IsCode(err, ErrCodeConflict))

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "email", appErr.Field)
}

func TestMapDBError_UniqueViolationFieldFromConstraint(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "expenses_category_key",
	}

	var appErr *AppError
	require.ErrorAs(t, MapDBError(pgErr), &appErr)
	assert.Equal(t, "category", appErr.Field)
}

func TestMapDBError_CheckViolation(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.CheckViolation})
	assert.Equal(t, ErrCodeValidation, CodeOf(err))
}

func TestMapDBError_NotNullViolation(t *testing.T) {
	var appErr *AppError
	require.ErrorAs(t, MapDBError(&pgconn.PgError{
		Code:       pgerrcode.NotNullViolation,
		ColumnName: "date",
	}), &appErr)
	assert.Equal(t, ErrCodeValidation, appErr.Code)
	assert.Equal(t, "date", appErr.Field)
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})
	assert.Equal(t, ErrCodeConflict, CodeOf(err))
}

func TestMapDBError_UnknownPgError(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
	assert.Equal(t, ErrCodeInternal, CodeOf(err))
}

func TestMapDBError_PassesThroughUnrecognized(t *testing.T) {
	assert.Equal(t, assert.AnError, MapDBError(assert.AnError))
}
