package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscdash/internal/shared/testutil"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
		wantDetail string
	}{
		{
			name:       "deadline exceeded",
			err:        fmt.Errorf("render: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "canceled",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "dataset unavailable",
			err:        ErrDatasetUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetUnavailable,
			wantCode:   "DATASET_UNAVAILABLE",
			wantDetail: "Dataset is not loaded",
		},
		{
			name:       "wrapped validation",
			err:        fmt.Errorf("query: %w", ErrValidation("year", "expected lo,hi")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "export format",
			err:        ErrInvalidFormat,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeExportFormat,
			wantCode:   "INVALID_EXPORT_FORMAT",
		},
		{
			name:       "rate limit",
			err:        ErrRateLimitExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
			wantCode:   "RATE_LIMIT_EXCEEDED",
		},
		{
			name:       "websocket upgrade",
			err:        New(http.StatusBadRequest, "WEBSOCKET_UPGRADE_FAILED", "missing upgrade header"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeWebSocketUpgrade,
			wantCode:   "WEBSOCKET_UPGRADE_FAILED",
		},
		{
			name:       "app validation",
			err:        NewAppValidationError("rank bounds are inverted"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantDetail: "rank bounds are inverted",
		},
		{
			name:       "app unavailable",
			err:        NewUnavailableError("no snapshot", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetUnavailable,
		},
		{
			name:       "app schema hides message",
			err:        NewSchemaError("missing ftpct in /srv/data/results.csv", nil),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeDatasetSchema,
			wantDetail: "An unexpected error occurred while processing your request",
		},
		{
			name:       "unknown error",
			err:        stderrors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, capture := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/dashboard/view", nil)
			h.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/dashboard/view", body["instance"])
			assert.NotContains(t, body, "stack")
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
			assert.True(t, capture.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	h := NewErrorHandler(testutil.DiscardLogger(), false)
	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestErrorHandler_IncludesTraceAndStack(t *testing.T) {
	h := NewErrorHandler(testutil.DiscardLogger(), true)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		h.HandleError(w, req, ErrExportFailed)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	body := decodeProblem(t, w)
	assert.NotEmpty(t, body["trace_id"])
	assert.Contains(t, body["stack"], "goroutine")
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	h := NewErrorHandler(testutil.DiscardLogger(), false)
	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), ErrValidation("rank", "inverted"))

	body := decodeProblem(t, w)
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rank", details["field"])
	assert.Equal(t, "inverted", details["message"])
}

func TestErrorHandler_RouterFallbacks(t *testing.T) {
	h := NewErrorHandler(testutil.DiscardLogger(), false)

	r := chi.NewRouter()
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)
	r.Get("/api/dashboard/view", func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantType   string
	}{
		{"unknown path", http.MethodGet, "/api/nope", http.StatusNotFound, TypeNotFound},
		{"wrong method", http.MethodDelete, "/api/dashboard/view", http.StatusMethodNotAllowed, TypeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.path, body["instance"])
		})
	}
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "").
		WithExtension("trace_id", "abc").
		WithExtension("type", "ignored")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, "abc", body["trace_id"])
	assert.NotContains(t, body, "detail")
	assert.NotContains(t, body, "instance")
}

func TestErrorHandlerConcurrency(t *testing.T) {
	h := NewErrorHandler(testutil.DiscardLogger(), false)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), ErrValidation(fmt.Sprintf("f%d", i), "bad"))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}(i)
	}
	wg.Wait()
}
