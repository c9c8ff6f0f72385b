package dataset

import (
	"time"

	"github.com/google/uuid"

	"upscdash/internal/analytics"
	"upscdash/pkg/contracts/domain"
)

// Dataset is an immutable snapshot of the results table together with the
// statistics that depend only on the full table.
type Dataset struct {
	snapshotID string
	source     string
	loadedAt   time.Time

	records    []domain.Record
	categories []string
	counts     map[string]int
	bounds     map[domain.Column]domain.Range
	medians    map[domain.Column]float64
	extremes   domain.Extremes
}

// New builds a snapshot from records. The slice is copied. An empty input
// returns ErrEmptyDataset.
func New(records []domain.Record, source string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	ds := &Dataset{
		snapshotID: uuid.NewString(),
		source:     source,
		loadedAt:   time.Now().UTC(),
		records:    append([]domain.Record(nil), records...),
		counts:     make(map[string]int),
		bounds:     make(map[domain.Column]domain.Range),
		medians:    make(map[domain.Column]float64),
	}

	for _, r := range ds.records {
		if _, ok := ds.counts[r.Category]; !ok {
			ds.categories = append(ds.categories, r.Category)
		}
		ds.counts[r.Category]++
	}

	for _, col := range []domain.Column{
		domain.ColumnWritten, domain.ColumnInterview, domain.ColumnTotal,
		domain.ColumnYear, domain.ColumnRank,
	} {
		ds.bounds[col] = bounds(ds.records, col)
	}

	for _, col := range []domain.Column{domain.ColumnWritten, domain.ColumnInterview} {
		ds.medians[col], _ = analytics.Median(analytics.Values(ds.records, col))
	}
	ds.extremes = analytics.Extremes(ds.records)

	return ds, nil
}

func bounds(rows []domain.Record, col domain.Column) domain.Range {
	r := domain.Range{Lo: rows[0].Value(col), Hi: rows[0].Value(col)}
	for _, row := range rows[1:] {
		v := row.Value(col)
		if v < r.Lo {
			r.Lo = v
		}
		if v > r.Hi {
			r.Hi = v
		}
	}
	return r
}

// SnapshotID uniquely identifies this load.
func (d *Dataset) SnapshotID() string { return d.snapshotID }

// Source is the path the snapshot was read from.
func (d *Dataset) Source() string { return d.source }

// LoadedAt is when the snapshot was built.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of every row in file order.
func (d *Dataset) Records() []domain.Record {
	return append([]domain.Record(nil), d.records...)
}

// Categories returns the category labels in order of first appearance.
func (d *Dataset) Categories() []string {
	return append([]string(nil), d.categories...)
}

// CategoryCount returns the number of rows labelled category.
func (d *Dataset) CategoryCount(category string) int {
	return d.counts[category]
}

// Bounds returns the min and max of col over the full table.
func (d *Dataset) Bounds(col domain.Column) domain.Range {
	return d.bounds[col]
}

// Median returns the full-table median of written or interview.
func (d *Dataset) Median(col domain.Column) float64 {
	return d.medians[col]
}

// Thresholds returns the full-table decile thresholds.
func (d *Dataset) Thresholds() domain.DecileThresholds {
	return d.extremes.Thresholds
}

// Extremes returns copies of the joint top and bottom decile subsets.
func (d *Dataset) Extremes() domain.Extremes {
	return domain.Extremes{
		Thresholds: d.extremes.Thresholds,
		Top:        append([]domain.Record{}, d.extremes.Top...),
		Bottom:     append([]domain.Record{}, d.extremes.Bottom...),
	}
}

// Info summarises the snapshot.
func (d *Dataset) Info() domain.DatasetInfo {
	return domain.DatasetInfo{
		SnapshotID: d.snapshotID,
		Source:     d.source,
		Rows:       len(d.records),
		Categories: len(d.categories),
		LoadedAt:   d.loadedAt.Format(time.RFC3339),
	}
}
