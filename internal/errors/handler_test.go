package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "validation app error",
			err:        NewAppValidationError("ledger is missing columns").WithContext("columns", []string{"Receita"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeValidation,
			wantCode:   "VALIDATION",
		},
		{
			name:       "parsing app error",
			err:        NewParsingError("bad header", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataCorrupted,
			wantCode:   "PARSING",
		},
		{
			name:       "storage app error",
			err:        fmt.Errorf("load: %w", NewStorageError("cannot open ledger", errors.New("no such file"))),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataUnavailable,
			wantCode:   "STORAGE",
		},
		{
			name:       "no data app error",
			err:        NewNoDataError("no dated records", nil),
			wantStatus: http.StatusNotFound,
			wantType:   TypeDataNotFound,
			wantCode:   "NO_DATA",
		},
		{
			name:       "not found app error",
			err:        NewNotFoundError("report x"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "config app error",
			err:        NewConfigError("bad", nil),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeConfig,
			wantCode:   "CONFIG",
		},
		{
			name:       "api error",
			err:        NotFoundError("table seasonality"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "context deadline",
			err:        fmt.Errorf("run: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "plain error",
			err:        errors.New("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := newTestLogger()
			handler := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
			rec := httptest.NewRecorder()
			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/reports", body["instance"])
			assert.NotContains(t, body, "stack")
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			assert.Contains(t, logs.String(), "request failed")
		})
	}
}

func TestErrorHandler_NilErrorWritesNothing(t *testing.T) {
	logger, logs := newTestLogger()
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Zero(t, rec.Body.Len())
	assert.Zero(t, logs.Len())
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	logger, _ := newTestLogger()
	handler := NewErrorHandler(logger, true)

	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("x"))

	assert.Contains(t, decodeProblem(t, rec), "stack")
}

func TestErrorHandler_ContextExtension(t *testing.T) {
	handler := NewErrorHandler(nil, false)
	err := NewAppValidationError("missing").WithContext("columns", []string{"Receita"})

	problem := handler.ErrorToProblem(err, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, map[string]interface{}{"columns": []string{"Receita"}}, problem.Extensions["context"])
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	handler := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/reports", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/a").
		WithExtension("trace_id", "abc").
		WithExtension("status", 999)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "abc", body["trace_id"])
	// extensions never override standard members
	assert.Equal(t, float64(404), body["status"])
	assert.NotContains(t, body, "detail")
}
