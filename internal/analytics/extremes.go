package analytics

import "upscdash/pkg/contracts/domain"

// Decile cut points.
const (
	TopQuantile    = 0.9
	BottomQuantile = 0.1
)

// Thresholds computes the decile thresholds of written and interview over
// rows. Pass the full dataset, never a filtered view. ok is false when rows
// is empty.
func Thresholds(rows []domain.Record) (domain.DecileThresholds, bool) {
	if len(rows) == 0 {
		return domain.DecileThresholds{}, false
	}
	written := sortedFloats(Values(rows, domain.ColumnWritten))
	interview := sortedFloats(Values(rows, domain.ColumnInterview))

	return domain.DecileThresholds{
		WrittenP10:   quantileSorted(written, BottomQuantile),
		WrittenP90:   quantileSorted(written, TopQuantile),
		InterviewP10: quantileSorted(interview, BottomQuantile),
		InterviewP90: quantileSorted(interview, TopQuantile),
	}, true
}

// Extremes selects the joint top and bottom decile rows of the full dataset.
// A row is in Top only when both written and interview reach their 90th
// percentile, and in Bottom only when both are at or below the 10th.
func Extremes(full []domain.Record) domain.Extremes {
	out := domain.Extremes{
		Top:    make([]domain.Record, 0),
		Bottom: make([]domain.Record, 0),
	}
	th, ok := Thresholds(full)
	if !ok {
		return out
	}
	out.Thresholds = th

	for _, r := range full {
		w, i := float64(r.Written), float64(r.Interview)
		if w >= th.WrittenP90 && i >= th.InterviewP90 {
			out.Top = append(out.Top, r)
		}
		if w <= th.WrittenP10 && i <= th.InterviewP10 {
			out.Bottom = append(out.Bottom, r)
		}
	}
	return out
}
