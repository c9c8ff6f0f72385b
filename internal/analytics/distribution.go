package analytics

import (
	"math"

	"upscdash/pkg/contracts/domain"
)

// Box computes a Tukey box summary of values. Whiskers reach the most
// extreme samples inside 1.5 IQR of the quartiles; samples beyond are
// outliers. ok is false for an empty sample.
func Box(values []int) (domain.BoxSummary, bool) {
	if len(values) == 0 {
		return domain.BoxSummary{}, false
	}
	sorted := sortedFloats(values)
	mean, _ := Mean(values)

	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr

	box := domain.BoxSummary{
		Count:      len(sorted),
		Min:        sorted[0],
		Q1:         q1,
		Median:     quantileSorted(sorted, 0.5),
		Q3:         q3,
		Max:        sorted[len(sorted)-1],
		Mean:       mean,
		LowerFence: math.Inf(1),
		UpperFence: math.Inf(-1),
	}
	for _, v := range sorted {
		if v < lo || v > hi {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		box.LowerFence = math.Min(box.LowerFence, v)
		box.UpperFence = math.Max(box.UpperFence, v)
	}
	if math.IsInf(box.LowerFence, 0) {
		box.LowerFence, box.UpperFence = box.Min, box.Max
	}
	return box, true
}

// BinEdges splits [lo, hi] into n equal-width bins and returns the n+1 edges.
// A degenerate range gets a single unit-wide bin.
func BinEdges(lo, hi float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	if hi <= lo {
		return []float64{lo, lo + 1}
	}
	width := (hi - lo) / float64(n)
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[n] = hi
	return edges
}

// Histogram counts values into the bins described by edges. Every bin is
// half-open except the last, which also takes values equal to its upper edge.
// With norm == domain.HistNormPercent the bar values sum to 100.
func Histogram(values []int, edges []float64, norm string) []domain.Bar {
	if len(edges) < 2 {
		return nil
	}
	bins := len(edges) - 1
	counts := make([]int, bins)
	total := 0
	for _, v := range values {
		idx := binIndex(float64(v), edges)
		if idx < 0 {
			continue
		}
		counts[idx]++
		total++
	}

	bars := make([]domain.Bar, bins)
	for i := range bars {
		value := float64(counts[i])
		if norm == domain.HistNormPercent && total > 0 {
			value = value * 100 / float64(total)
		}
		bars[i] = domain.Bar{Start: edges[i], End: edges[i+1], Value: value}
	}
	return bars
}

func binIndex(v float64, edges []float64) int {
	last := len(edges) - 1
	if v < edges[0] || v > edges[last] {
		return -1
	}
	if v == edges[last] {
		return last - 1
	}
	width := edges[1] - edges[0]
	idx := int((v - edges[0]) / width)
	// guard against float drift at interior edges
	for idx > 0 && v < edges[idx] {
		idx--
	}
	for idx < last-1 && v >= edges[idx+1] {
		idx++
	}
	return idx
}
