package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "upscdash/internal/errors"
	"upscdash/internal/exporter"
	appmiddleware "upscdash/internal/middleware"
	"upscdash/internal/services"
	"upscdash/pkg/contracts/domain"
)

// DashboardService is the part of services.DashboardService the HTTP layer
// depends on.
type DashboardService interface {
	Info(ctx context.Context) (domain.DatasetInfo, error)
	Options(ctx context.Context) (domain.ControlOptions, error)
	View(ctx context.Context, source string, req domain.ConstraintsRequest) (*domain.ViewModel, error)
	Stats(ctx context.Context, req domain.ConstraintsRequest) ([]domain.CategoryStat, error)
	Counts(ctx context.Context, req domain.ConstraintsRequest) ([]domain.CategoryCount, error)
	Extremes(ctx context.Context) (domain.Extremes, error)
	Rows(ctx context.Context, req domain.ConstraintsRequest, limit, offset int) (*services.RowsPage, error)
	Export(ctx context.Context, w io.Writer, format exporter.Format, req domain.ConstraintsRequest) error
}

// DashboardHandler serves the dashboard API with RFC 7807 errors.
type DashboardHandler struct {
	service      DashboardService
	validation   *appmiddleware.ValidationMiddleware
	query        *appmiddleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	now          func() time.Time
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validation:   appmiddleware.NewValidationMiddleware(logger, errorHandler),
		query:        appmiddleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		now:          time.Now,
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetInfo)
	r.Get("/options", h.GetOptions)
	r.Get("/view", h.GetView)
	r.With(h.validation.RequireContentType("application/json"), h.validation.ValidateRequest).Post("/view", h.PostView)
	r.Get("/stats", h.GetStats)
	r.Get("/counts", h.GetCounts)
	r.Get("/extremes", h.GetExtremes)
	r.Get("/rows", h.GetRows)
	r.Get("/export", h.Export)

	return r
}

// GetInfo handles GET /api/dashboard
func (h *DashboardHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// GetOptions handles GET /api/dashboard/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// GetView handles GET /api/dashboard/view
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	req, ok := h.constraints(w, r)
	if !ok {
		return
	}
	h.renderView(w, r, req)
}

// PostView handles POST /api/dashboard/view with a JSON constraint payload.
// An empty body is the default view.
func (h *DashboardHandler) PostView(w http.ResponseWriter, r *http.Request) {
	var req domain.ConstraintsRequest
	if r.ContentLength != 0 {
		if err := h.validation.DecodeJSON(r, &req); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
	}
	h.renderView(w, r, req)
}

func (h *DashboardHandler) renderView(w http.ResponseWriter, r *http.Request, req domain.ConstraintsRequest) {
	view, err := h.service.View(r.Context(), services.SourceHTTP, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "view rendered",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("filtered_rows", view.FilteredRows),
		slog.Int("total_rows", view.TotalRows))

	render.JSON(w, r, view)
}

// GetStats handles GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	req, ok := h.constraints(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Stats(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"stats": stats,
		"count": len(stats),
	})
}

// GetCounts handles GET /api/dashboard/counts
func (h *DashboardHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	req, ok := h.constraints(w, r)
	if !ok {
		return
	}
	counts, err := h.service.Counts(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"counts": counts,
		"count":  len(counts),
	})
}

// GetExtremes handles GET /api/dashboard/extremes
func (h *DashboardHandler) GetExtremes(w http.ResponseWriter, r *http.Request) {
	extremes, err := h.service.Extremes(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, extremes)
}

// GetRows handles GET /api/dashboard/rows?limit=&offset=
func (h *DashboardHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	req, ok := h.constraints(w, r)
	if !ok {
		return
	}
	limit, ok := h.query.ValidateInt(w, r, "limit", 1, services.MaxRowsLimit, services.DefaultRowsLimit)
	if !ok {
		return
	}
	offset, ok := h.query.ValidateInt(w, r, "offset", 0, math.MaxInt32, 0)
	if !ok {
		return
	}

	page, err := h.service.Rows(r.Context(), req, limit, offset)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// Export handles GET /api/dashboard/export?format=csv|xlsx. The file is
// built in memory so a failure can still be reported as a problem response.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	req, ok := h.constraints(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, format, req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	filename := exporter.Filename(format, h.now())
	h.logger.InfoContext(r.Context(), "export served",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("format", string(format)),
		slog.String("filename", filename),
		slog.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export body",
			slog.String("error", err.Error()))
	}
}

// constraints parses and validates the query constraint set, writing the
// error response itself when it fails.
func (h *DashboardHandler) constraints(w http.ResponseWriter, r *http.Request) (domain.ConstraintsRequest, bool) {
	req, err := parseConstraintsQuery(r.URL.Query())
	if err == nil {
		err = h.validation.ValidateStruct(&req)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return req, false
	}
	return req, true
}

// handleServiceError maps service errors onto API errors.
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetUnavailable)
	case errors.Is(err, services.ErrInvalidPage):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("offset", err.Error()))
	case errors.Is(err, exporter.ErrInvalidExportFormat):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			apierrors.ErrInvalidFormat.ErrorCode,
			err.Error(),
			map[string]interface{}{"supported": exporter.Formats},
		))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
