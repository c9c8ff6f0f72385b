package dashboard

import (
	"upscdash/internal/analytics"
	"upscdash/internal/dataset"
	"upscdash/pkg/contracts/domain"
)

// Renderer turns a dataset snapshot and a constraint set into a ViewModel.
// It holds no state besides its settings and is safe for concurrent use.
type Renderer struct {
	settings Settings
}

// NewRenderer creates a renderer. Non-positive histogram bins fall back to
// the default.
func NewRenderer(settings Settings) *Renderer {
	if settings.HistogramBins < 1 {
		settings.HistogramBins = DefaultSettings().HistogramBins
	}
	return &Renderer{settings: settings}
}

// Render computes the filtered view of ds under c. It never fails: empty
// selections and inverted ranges produce an empty view with degenerate
// charts.
func Render(ds *dataset.Dataset, c domain.Constraints) domain.ViewModel {
	return NewRenderer(DefaultSettings()).Render(ds, c)
}

// Settings returns the renderer configuration.
func (r *Renderer) Settings() Settings {
	return r.settings
}

// Render computes the filtered view of ds under c.
func (r *Renderer) Render(ds *dataset.Dataset, c domain.Constraints) domain.ViewModel {
	c = c.Clone()
	full := ds.Records()
	filtered := analytics.Filter(full, c)
	stats := analytics.CategoryStats(filtered)
	counts := analytics.CategoryCounts(filtered)
	extremes := ds.Extremes()

	b := chartBuilder{
		palette: NewPalette(ds.Categories()),
		bins:    r.settings.HistogramBins,
	}

	charts := []domain.ChartSpec{
		b.scatter(filtered),
		b.statScatter("mean_scatter", stats, true),
		b.statScatter("median_scatter", stats, false),
		b.decileScatter("top_decile", extremes.Top, true),
		b.decileScatter("bottom_decile", extremes.Bottom, false),
		b.pie(counts),
		b.box(filtered, domain.ColumnInterview, c.Categories, ds.Median(domain.ColumnInterview)),
		b.box(filtered, domain.ColumnWritten, c.Categories, ds.Median(domain.ColumnWritten)),
		b.histogram(filtered, domain.ColumnInterview, domain.HistNormNone),
		b.histogram(filtered, domain.ColumnWritten, domain.HistNormNone),
		b.histogram(filtered, domain.ColumnInterview, domain.HistNormPercent),
		b.histogram(filtered, domain.ColumnWritten, domain.HistNormPercent),
		b.distribution("written_distribution", full, domain.ColumnWritten, domain.HistNormNone, "stack"),
		b.distribution("written_distribution_percent", full, domain.ColumnWritten, domain.HistNormPercent, "stack"),
		b.distribution("written_overlay", full, domain.ColumnWritten, domain.HistNormNone, "overlay"),
		b.distribution("interview_overlay", full, domain.ColumnInterview, domain.HistNormNone, "overlay"),
	}

	return domain.ViewModel{
		Constraints:  c,
		TotalRows:    ds.Len(),
		FilteredRows: len(filtered),
		Stats:        stats,
		Counts:       counts,
		Thresholds:   extremes.Thresholds,
		Charts:       charts,
	}
}

// Defaults returns the initial constraint set for ds: every category, the
// full score ranges and the configured year and rank ranges.
func (r *Renderer) Defaults(ds *dataset.Dataset) domain.Constraints {
	return domain.Constraints{
		Categories: ds.Categories(),
		Written:    ds.Bounds(domain.ColumnWritten),
		Interview:  ds.Bounds(domain.ColumnInterview),
		Year:       r.settings.YearBounds,
		Rank:       r.settings.RankBounds,
	}
}

// Options describes the input controls for ds.
func (r *Renderer) Options(ds *dataset.Dataset) domain.ControlOptions {
	palette := NewPalette(ds.Categories())
	defaults := r.Defaults(ds)

	cats := make([]domain.CategoryOption, 0, len(defaults.Categories))
	for _, label := range defaults.Categories {
		cats = append(cats, domain.CategoryOption{
			Label: label,
			Color: palette.Color(label),
			Count: ds.CategoryCount(label),
		})
	}

	slider := func(bounds domain.Range, step int) domain.SliderSpec {
		return domain.SliderSpec{Min: bounds.Lo, Max: bounds.Hi, Step: step, Default: bounds}
	}

	return domain.ControlOptions{
		Categories: cats,
		Written:    slider(defaults.Written, r.settings.ScoreStep),
		Interview:  slider(defaults.Interview, r.settings.ScoreStep),
		Year:       slider(defaults.Year, r.settings.YearStep),
		Rank:       slider(defaults.Rank, r.settings.RankStep),
		Defaults:   defaults,
	}
}
