package dashboard

import (
	"upscdash/internal/analytics"
	"upscdash/pkg/contracts/domain"
)

// Axis titles.
const (
	axisWritten         = "Written Marks"
	axisInterview       = "Interview Marks"
	axisMeanWritten     = "Mean Written Marks"
	axisMeanInterview   = "Mean Interview Marks"
	axisMedianWritten   = "Median Written Marks"
	axisMedianInterview = "Median Interview Marks"
	axisCategories      = "Categories"
	axisFrequency       = "Frequency"
	axisPercentage      = "Percentage"
)

type chartBuilder struct {
	palette Palette
	bins    int
}

func axisTitle(col domain.Column) string {
	if col == domain.ColumnInterview {
		return axisInterview
	}
	return axisWritten
}

// pointSeries groups rows into one written/interview series per category,
// in order of first appearance.
func (b chartBuilder) pointSeries(rows []domain.Record) []domain.Series {
	groups, order := analytics.GroupByCategory(rows)
	series := make([]domain.Series, 0, len(order))
	for _, cat := range order {
		points := make([]domain.Point, len(groups[cat]))
		for i, r := range groups[cat] {
			points[i] = domain.Point{X: float64(r.Written), Y: float64(r.Interview)}
		}
		series = append(series, domain.Series{Name: cat, Color: b.palette.Color(cat), Points: points})
	}
	return series
}

func (b chartBuilder) scatter(filtered []domain.Record) domain.ChartSpec {
	return domain.ChartSpec{
		ID:     "scatter",
		Kind:   domain.ChartScatter,
		Header: "Interview vs Written Marks by Categories",
		XAxis:  axisWritten,
		YAxis:  axisInterview,
		Series: b.pointSeries(filtered),
	}
}

func (b chartBuilder) statScatter(id string, stats []domain.CategoryStat, mean bool) domain.ChartSpec {
	spec := domain.ChartSpec{
		ID:           id,
		Kind:         domain.ChartScatter,
		TextPosition: "bottom center",
		Series:       make([]domain.Series, 0, len(stats)),
	}
	if mean {
		spec.Header = "Mean Interview vs Mean Written Marks by Categories"
		spec.Title = "Mean Interview vs Written Marks by Categories"
		spec.XAxis, spec.YAxis = axisMeanWritten, axisMeanInterview
	} else {
		spec.Header = "Median Interview vs Median Written Marks by Categories"
		spec.Title = "Median Interview vs Written Marks by Categories"
		spec.XAxis, spec.YAxis = axisMedianWritten, axisMedianInterview
	}

	for _, s := range stats {
		p := domain.Point{X: s.MedianWritten, Y: s.MedianInterview, Text: s.Category}
		if mean {
			p.X, p.Y = s.MeanWritten, s.MeanInterview
		}
		spec.Series = append(spec.Series, domain.Series{
			Name:   s.Category,
			Color:  b.palette.Color(s.Category),
			Points: []domain.Point{p},
		})
	}
	return spec
}

func (b chartBuilder) decileScatter(id string, rows []domain.Record, top bool) domain.ChartSpec {
	title := "Bottom 10 Percentile: Written vs Interview Marks by Categories"
	if top {
		title = "Top 10 Percentile: Written vs Interview Marks by Categories"
	}
	return domain.ChartSpec{
		ID:     id,
		Kind:   domain.ChartScatter,
		Header: title,
		Title:  title,
		XAxis:  axisWritten,
		YAxis:  axisInterview,
		Series: b.pointSeries(rows),
	}
}

func (b chartBuilder) pie(counts []domain.CategoryCount) domain.ChartSpec {
	slices := make([]domain.PieSlice, len(counts))
	for i, c := range counts {
		slices[i] = domain.PieSlice{Label: c.Category, Value: c.Count, Color: b.palette.Color(c.Category)}
	}
	return domain.ChartSpec{
		ID:       "category_pie",
		Kind:     domain.ChartPie,
		Header:   "Categories wise candidates distribution",
		Slices:   slices,
		Hole:     0.3,
		Opacity:  0.7,
		TextInfo: "percent+label",
	}
}

// box draws one horizontal box per selected category that has rows, with a
// vertical reference line at the full-dataset median.
func (b chartBuilder) box(filtered []domain.Record, col domain.Column, selected []string, fullMedian float64) domain.ChartSpec {
	groups, _ := analytics.GroupByCategory(filtered)

	boxes := make([]domain.BoxTrace, 0, len(selected))
	for _, cat := range selected {
		summary, ok := analytics.Box(analytics.Values(groups[cat], col))
		if !ok {
			continue
		}
		boxes = append(boxes, domain.BoxTrace{Category: cat, Color: b.palette.Color(cat), Summary: summary})
	}

	header := "Distribution of Categories Wise Written Marks"
	if col == domain.ColumnInterview {
		header = "Distribution of Categories Wise Interview Marks"
	}

	return domain.ChartSpec{
		ID:            string(col) + "_box",
		Kind:          domain.ChartBox,
		Header:        header,
		XAxis:         axisTitle(col),
		YAxis:         axisCategories,
		Boxes:         boxes,
		CategoryOrder: append([]string{}, selected...),
		Shapes: []domain.Shape{{
			Type:  "line",
			X0:    fullMedian,
			X1:    fullMedian,
			Y0:    -0.5,
			Y1:    float64(len(selected)) - 0.5,
			Color: ReferenceLineColor,
			Width: 2,
		}},
	}
}

// histogram bins the filtered view over its own range and overlays one
// series per category, each with a marginal box.
func (b chartBuilder) histogram(filtered []domain.Record, col domain.Column, norm string) domain.ChartSpec {
	id := string(col) + "_histogram"
	yAxis := axisFrequency
	if norm == domain.HistNormPercent {
		id += "_percent"
		yAxis = axisPercentage
	}

	spec := domain.ChartSpec{
		ID:       id,
		Kind:     domain.ChartHistogram,
		Header:   "Distribution of " + axisTitle(col),
		XAxis:    axisTitle(col),
		YAxis:    yAxis,
		BarMode:  "overlay",
		HistNorm: norm,
		Marginal: "box",
	}
	spec.Series = b.histogramSeries(filtered, col, norm, true)
	return spec
}

// distribution is a histogram of the full dataset, unaffected by filters.
func (b chartBuilder) distribution(id string, full []domain.Record, col domain.Column, norm, barMode string) domain.ChartSpec {
	yAxis := "count"
	if norm == domain.HistNormPercent {
		yAxis = axisPercentage
	}
	spec := domain.ChartSpec{
		ID:       id,
		Kind:     domain.ChartHistogram,
		XAxis:    axisTitle(col),
		YAxis:    yAxis,
		BarMode:  barMode,
		HistNorm: norm,
		Series:   b.histogramSeries(full, col, norm, false),
	}
	if barMode == "overlay" {
		spec.Title = "Interactive Histogram of " + axisTitle(col) + " by Category"
	}
	return spec
}

func (b chartBuilder) histogramSeries(rows []domain.Record, col domain.Column, norm string, marginal bool) []domain.Series {
	if len(rows) == 0 {
		return []domain.Series{}
	}

	values := analytics.Values(rows, col)
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	edges := analytics.BinEdges(float64(lo), float64(hi), b.bins)

	groups, order := analytics.GroupByCategory(rows)
	series := make([]domain.Series, 0, len(order))
	for _, cat := range order {
		vals := analytics.Values(groups[cat], col)
		s := domain.Series{
			Name:  cat,
			Color: b.palette.Color(cat),
			Bars:  analytics.Histogram(vals, edges, norm),
		}
		if marginal {
			if box, ok := analytics.Box(vals); ok {
				s.Box = &box
			}
		}
		series = append(series, s)
	}
	return series
}
