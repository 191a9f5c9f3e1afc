package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMiddleware_LogsRequests(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error", status: http.StatusNotFound, wantLevel: "WARN"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := newTestLogger()
			mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			rec := httptest.NewRecorder()
			mw.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports?format=json", nil))

			assert.Equal(t, tt.status, rec.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(logs.String())), &entry))
			assert.Equal(t, "http request", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, "format=json", entry["query"])
		})
	}
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	logger, logs := newTestLogger()
	mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("aggregation blew up")
	})
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		mw.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, TypeInternal, decodeProblem(t, rec)["type"])
	assert.Contains(t, logs.String(), "panic recovered")
}
