package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppValidationError("missing column"),
			want: "[VALIDATION] missing column",
		},
		{
			name: "with cause",
			err:  NewStorageError("cannot open ledger", errors.New("permission denied")),
			want: "[STORAGE] cannot open ledger: permission denied",
		},
		{
			name: "not found",
			err:  NewNotFoundError("report seasonality"),
			want: "[NOT_FOUND] report seasonality not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestHelpers_SetType(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  *AppError
		want ErrorType
	}{
		{"parsing", NewParsingError("bad row", cause), ErrTypeParsing},
		{"storage", NewStorageError("read failed", cause), ErrTypeStorage},
		{"validation", NewAppValidationError("bad"), ErrTypeValidation},
		{"not found", NewNotFoundError("x"), ErrTypeNotFound},
		{"no data", NewNoDataError("no dated records", cause), ErrTypeNoData},
		{"config", NewConfigError("bad ceiling", cause), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestAppError_UnwrapAndIsType(t *testing.T) {
	sentinel := errors.New("sentinel")
	appErr := NewParsingError("header unreadable", sentinel)
	wrapped := fmt.Errorf("loading ledger: %w", appErr)

	assert.ErrorIs(t, wrapped, sentinel)
	assert.True(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(wrapped, ErrTypeStorage))
	assert.False(t, IsType(sentinel, ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))

	var target *AppError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "header unreadable", target.Message)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewAppValidationError("missing columns").
		WithContext("columns", []string{"Receita"}).
		WithContext("row", 3)

	assert.Equal(t, []string{"Receita"}, err.Context["columns"])
	assert.Equal(t, 3, err.Context["row"])

	bare := &AppError{Type: ErrTypeConfig}
	bare.WithContext("key", "value")
	assert.Equal(t, "value", bare.Context["key"])
}

func TestAPIError(t *testing.T) {
	err := ErrValidation("name", "unknown table")
	assert.Equal(t, 400, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	assert.Equal(t, ValidationError{Field: "name", Message: "unknown table"}, err.Details)
	assert.Equal(t, "Request validation failed", err.Error())

	nf := NotFoundError("report")
	assert.Equal(t, 404, nf.StatusCode)
	assert.Equal(t, "report not found", nf.Message)
}
