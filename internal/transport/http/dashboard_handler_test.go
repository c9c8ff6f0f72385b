package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "upscdash/internal/errors"
	"upscdash/internal/exporter"
	"upscdash/internal/services"
	"upscdash/internal/shared/testutil"
	"upscdash/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Info(ctx context.Context) (domain.DatasetInfo, error) {
	args := m.Called()
	return args.Get(0).(domain.DatasetInfo), args.Error(1)
}

func (m *MockDashboardService) Options(ctx context.Context) (domain.ControlOptions, error) {
	args := m.Called()
	return args.Get(0).(domain.ControlOptions), args.Error(1)
}

func (m *MockDashboardService) View(ctx context.Context, source string, req domain.ConstraintsRequest) (*domain.ViewModel, error) {
	args := m.Called(source, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ViewModel), args.Error(1)
}

func (m *MockDashboardService) Stats(ctx context.Context, req domain.ConstraintsRequest) ([]domain.CategoryStat, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryStat), args.Error(1)
}

func (m *MockDashboardService) Counts(ctx context.Context, req domain.ConstraintsRequest) ([]domain.CategoryCount, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCount), args.Error(1)
}

func (m *MockDashboardService) Extremes(ctx context.Context) (domain.Extremes, error) {
	args := m.Called()
	return args.Get(0).(domain.Extremes), args.Error(1)
}

func (m *MockDashboardService) Rows(ctx context.Context, req domain.ConstraintsRequest, limit, offset int) (*services.RowsPage, error) {
	args := m.Called(req, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RowsPage), args.Error(1)
}

func (m *MockDashboardService) Export(ctx context.Context, w io.Writer, format exporter.Format, req domain.ConstraintsRequest) error {
	args := m.Called(w, format, req)
	return args.Error(0)
}

func newDashboardRouter(t *testing.T, svc DashboardService) http.Handler {
	t.Helper()
	logger := testutil.DiscardLogger()
	h := NewDashboardHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	h.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Mount("/api/dashboard", h.Routes())
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestDashboardHandler_GetView(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantReq    domain.ConstraintsRequest
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "defaults",
			wantReq:    domain.ConstraintsRequest{},
			wantStatus: http.StatusOK,
		},
		{
			name:  "explicit constraints",
			query: "?categories=GEN&written=1000,1400",
			wantReq: domain.ConstraintsRequest{
				Categories: []string{"GEN"},
				Written:    &domain.Range{Lo: 1000, Hi: 1400},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "dataset not loaded",
			wantReq:    domain.ConstraintsRequest{},
			serviceErr: services.ErrDatasetNotLoaded,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "DATASET_UNAVAILABLE",
		},
		{
			name:       "unexpected error",
			wantReq:    domain.ConstraintsRequest{},
			serviceErr: errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			if tt.serviceErr != nil {
				svc.On("View", services.SourceHTTP, tt.wantReq).Return(nil, tt.serviceErr)
			} else {
				svc.On("View", services.SourceHTTP, tt.wantReq).Return(&domain.ViewModel{TotalRows: 5, FilteredRows: 2}, nil)
			}

			rec := httptest.NewRecorder()
			newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/view"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantStatus == http.StatusOK {
				assert.EqualValues(t, 2, body["filtered_rows"])
				assert.EqualValues(t, 5, body["total_rows"])
			} else {
				assert.EqualValues(t, tt.wantStatus, body["status"])
				if tt.wantCode != "" {
					assert.Equal(t, tt.wantCode, body["error_code"])
				}
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_GetViewRejectsBadQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"malformed range", "?written=abc"},
		{"control character in category", "?categories=GE%01N"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)

			rec := httptest.NewRecorder()
			newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/view"+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "/errors/validation", decodeBody(t, rec)["type"])
			svc.AssertNotCalled(t, "View", mock.Anything, mock.Anything)
		})
	}
}

func TestDashboardHandler_PostView(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantReq    *domain.ConstraintsRequest
		wantStatus int
	}{
		{
			name:       "empty body renders defaults",
			body:       "",
			wantReq:    &domain.ConstraintsRequest{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "explicit empty categories",
			body:       `{"categories":[]}`,
			wantReq:    &domain.ConstraintsRequest{Categories: []string{}},
			wantStatus: http.StatusOK,
		},
		{
			name: "inverted range is legal",
			body: `{"year":{"lo":2015,"hi":2010}}`,
			wantReq: &domain.ConstraintsRequest{
				Year: &domain.Range{Lo: 2015, Hi: 2010},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown field",
			body:       `{"colour":"red"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `{"categories":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank category",
			body:       `{"categories":["  "]}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			if tt.wantReq != nil {
				svc.On("View", services.SourceHTTP, *tt.wantReq).Return(&domain.ViewModel{}, nil)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/dashboard/view", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			newDashboardRouter(t, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_GetOptionsAndInfo(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Options").Return(domain.ControlOptions{
		Categories: []domain.CategoryOption{{Label: "GEN", Color: "#1f77b4", Count: 2}},
	}, nil)
	svc.On("Info").Return(domain.DatasetInfo{SnapshotID: "abc", Rows: 5}, nil)
	router := newDashboardRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/options", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"GEN"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"abc"`)

	svc.AssertExpectations(t)
}

func TestDashboardHandler_StatsAndCounts(t *testing.T) {
	req := domain.ConstraintsRequest{Categories: []string{"GEN", "OBC"}}
	svc := new(MockDashboardService)
	svc.On("Stats", req).Return([]domain.CategoryStat{{Category: "GEN", Count: 2}, {Category: "OBC", Count: 1}}, nil)
	svc.On("Counts", req).Return([]domain.CategoryCount{{Category: "GEN", Count: 2}}, nil)
	router := newDashboardRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats?categories=GEN,OBC", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decodeBody(t, rec)["count"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/counts?categories=GEN&categories=OBC", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["count"])

	svc.AssertExpectations(t)
}

func TestDashboardHandler_GetExtremes(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Extremes").Return(domain.Extremes{}, services.ErrDatasetNotLoaded)

	rec := httptest.NewRecorder()
	newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/extremes", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "/errors/dataset/unavailable", decodeBody(t, rec)["type"])
}

func TestDashboardHandler_GetRows(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		limit      int
		offset     int
		wantStatus int
	}{
		{"default paging", "", services.DefaultRowsLimit, 0, http.StatusOK},
		{"explicit paging", "?limit=2&offset=3", 2, 3, http.StatusOK},
		{"limit above maximum", fmt.Sprintf("?limit=%d", services.MaxRowsLimit+1), 0, 0, http.StatusBadRequest},
		{"negative offset", "?offset=-1", 0, 0, http.StatusBadRequest},
		{"non numeric limit", "?limit=ten", 0, 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			if tt.wantStatus == http.StatusOK {
				svc.On("Rows", domain.ConstraintsRequest{}, tt.limit, tt.offset).
					Return(&services.RowsPage{Total: 5, Limit: tt.limit, Offset: tt.offset, Rows: []domain.Record{}}, nil)
			}

			rec := httptest.NewRecorder()
			newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/rows"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				body := decodeBody(t, rec)
				assert.EqualValues(t, 5, body["total"])
				assert.EqualValues(t, tt.limit, body["limit"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_Export(t *testing.T) {
	tests := []struct {
		name            string
		query           string
		format          exporter.Format
		wantContentType string
		wantFilename    string
	}{
		{"csv by default", "", exporter.FormatCSV, "text/csv", "upsc_results_20240301_093000.csv"},
		{"xlsx", "?format=xlsx", exporter.FormatXLSX, "spreadsheetml", "upsc_results_20240301_093000.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			svc.On("Export", mock.Anything, tt.format, domain.ConstraintsRequest{}).
				Run(func(args mock.Arguments) {
					_, _ = io.WriteString(args.Get(0).(io.Writer), "payload")
				}).
				Return(nil)

			rec := httptest.NewRecorder()
			newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/export"+tt.query, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.wantContentType)
			assert.Contains(t, rec.Header().Get("Content-Disposition"), tt.wantFilename)
			assert.Equal(t, "7", rec.Header().Get("Content-Length"))
			assert.Equal(t, "payload", rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_ExportErrors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		svc := new(MockDashboardService)

		rec := httptest.NewRecorder()
		newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/export?format=pdf", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "INVALID_EXPORT_FORMAT", body["error_code"])
		assert.Equal(t, "/errors/export/format", body["type"])
		svc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("export failure is a problem response", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("Export", mock.Anything, exporter.FormatCSV, domain.ConstraintsRequest{}).
			Run(func(args mock.Arguments) {
				_, _ = io.WriteString(args.Get(0).(io.Writer), "partial")
			}).
			Return(errors.New("disk full"))

		rec := httptest.NewRecorder()
		newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/export", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "partial")
		assert.Empty(t, rec.Header().Get("Content-Disposition"))
	})
}
