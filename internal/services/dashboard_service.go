package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"upscdash/internal/analytics"
	"upscdash/internal/dashboard"
	"upscdash/internal/dataset"
	"upscdash/internal/exporter"
	"upscdash/pkg/contracts/domain"
)

const tracerName = "upscdash.services"

// Render sources, used to label metrics.
const (
	SourceHTTP      = "http"
	SourceWebSocket = "websocket"
	SourceCLI       = "cli"
)

// Row paging limits.
const (
	DefaultRowsLimit = 100
	MaxRowsLimit     = 5000
)

// MetricsRecorder receives render and export outcomes. Implemented by
// infrastructure.BusinessMetrics.
type MetricsRecorder interface {
	RecordRender(ctx context.Context, source string, filteredRows int, duration time.Duration)
	RecordExport(ctx context.Context, format string, err error)
}

// RowsPage is one page of filtered rows.
type RowsPage struct {
	SnapshotID string          `json:"snapshot_id"`
	Total      int             `json:"total"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
	Rows       []domain.Record `json:"rows"`
}

// DashboardService answers dashboard queries against the current snapshot.
type DashboardService struct {
	store    *dataset.Store
	renderer *dashboard.Renderer
	metrics  MetricsRecorder
	logger   *slog.Logger
}

// NewDashboardService creates the service. metrics may be nil.
func NewDashboardService(store *dataset.Store, renderer *dashboard.Renderer, metrics MetricsRecorder, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if renderer == nil {
		renderer = dashboard.NewRenderer(dashboard.DefaultSettings())
	}
	return &DashboardService{
		store:    store,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

func (s *DashboardService) snapshot() (*dataset.Dataset, error) {
	ds := s.store.Current()
	if ds == nil {
		return nil, ErrDatasetNotLoaded
	}
	return ds, nil
}

// Info describes the current snapshot.
func (s *DashboardService) Info(ctx context.Context) (domain.DatasetInfo, error) {
	ds, err := s.snapshot()
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	return ds.Info(), nil
}

// Options returns the control layout for the current snapshot.
func (s *DashboardService) Options(ctx context.Context) (domain.ControlOptions, error) {
	ds, err := s.snapshot()
	if err != nil {
		return domain.ControlOptions{}, err
	}
	return s.renderer.Options(ds), nil
}

// Resolve fills the unset fields of req from the current defaults.
func (s *DashboardService) Resolve(ctx context.Context, req domain.ConstraintsRequest) (domain.Constraints, error) {
	ds, err := s.snapshot()
	if err != nil {
		return domain.Constraints{}, err
	}
	return req.Resolve(s.renderer.Defaults(ds)), nil
}

// View renders the full view model for req. source labels the render in
// metrics and traces.
func (s *DashboardService) View(ctx context.Context, source string, req domain.ConstraintsRequest) (*domain.ViewModel, error) {
	ds, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "dashboard.render")
	defer span.End()

	c := req.Resolve(s.renderer.Defaults(ds))
	start := time.Now()
	vm := s.renderer.Render(ds, c)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.String("render.source", source),
		attribute.String("dataset.snapshot_id", ds.SnapshotID()),
		attribute.Int("render.filtered_rows", vm.FilteredRows),
		attribute.Int("render.categories", len(c.Categories)),
	)
	if s.metrics != nil {
		s.metrics.RecordRender(ctx, source, vm.FilteredRows, elapsed)
	}

	s.logger.DebugContext(ctx, "view rendered",
		slog.String("source", source),
		slog.String("snapshot_id", ds.SnapshotID()),
		slog.Int("filtered_rows", vm.FilteredRows),
		slog.Duration("duration", elapsed))

	return &vm, nil
}

func (s *DashboardService) filtered(req domain.ConstraintsRequest) (*dataset.Dataset, domain.Constraints, []domain.Record, error) {
	ds, err := s.snapshot()
	if err != nil {
		return nil, domain.Constraints{}, nil, err
	}
	c := req.Resolve(s.renderer.Defaults(ds))
	return ds, c, analytics.Filter(ds.Records(), c), nil
}

// Stats returns the per-category aggregate table for req.
func (s *DashboardService) Stats(ctx context.Context, req domain.ConstraintsRequest) ([]domain.CategoryStat, error) {
	_, _, rows, err := s.filtered(req)
	if err != nil {
		return nil, err
	}
	return analytics.CategoryStats(rows), nil
}

// Counts returns the per-category row counts for req.
func (s *DashboardService) Counts(ctx context.Context, req domain.ConstraintsRequest) ([]domain.CategoryCount, error) {
	_, _, rows, err := s.filtered(req)
	if err != nil {
		return nil, err
	}
	return analytics.CategoryCounts(rows), nil
}

// Extremes returns the top and bottom decile subsets of the full dataset.
// They do not depend on any constraint.
func (s *DashboardService) Extremes(ctx context.Context) (domain.Extremes, error) {
	ds, err := s.snapshot()
	if err != nil {
		return domain.Extremes{}, err
	}
	return ds.Extremes(), nil
}

// Rows returns a page of the filtered rows in file order. A zero limit
// means DefaultRowsLimit; larger limits are capped at MaxRowsLimit.
func (s *DashboardService) Rows(ctx context.Context, req domain.ConstraintsRequest, limit, offset int) (*RowsPage, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit=%d offset=%d", ErrInvalidPage, limit, offset)
	}
	if limit == 0 {
		limit = DefaultRowsLimit
	}
	if limit > MaxRowsLimit {
		limit = MaxRowsLimit
	}

	ds, _, rows, err := s.filtered(req)
	if err != nil {
		return nil, err
	}

	page := &RowsPage{
		SnapshotID: ds.SnapshotID(),
		Total:      len(rows),
		Limit:      limit,
		Offset:     offset,
		Rows:       []domain.Record{},
	}
	if offset < len(rows) {
		end := min(offset+limit, len(rows))
		page.Rows = rows[offset:end]
	}
	return page, nil
}

// ExportData collects the filtered rows with their aggregates.
func (s *DashboardService) ExportData(ctx context.Context, req domain.ConstraintsRequest) (exporter.Data, error) {
	ds, c, rows, err := s.filtered(req)
	if err != nil {
		return exporter.Data{}, err
	}
	return exporter.Data{
		SnapshotID:  ds.SnapshotID(),
		Constraints: c,
		Rows:        rows,
		Stats:       analytics.CategoryStats(rows),
		Counts:      analytics.CategoryCounts(rows),
	}, nil
}

// Export writes the filtered view for req to w.
func (s *DashboardService) Export(ctx context.Context, w io.Writer, format exporter.Format, req domain.ConstraintsRequest) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dashboard.export")
	defer span.End()
	span.SetAttributes(attribute.String("export.format", string(format)))

	defer func() {
		if s.metrics != nil {
			s.metrics.RecordExport(ctx, string(format), err)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	data, err := s.ExportData(ctx, req)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("export.rows", len(data.Rows)))

	if err := exporter.Write(w, format, data); err != nil {
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}
