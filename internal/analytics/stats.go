package analytics

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values. ok is false for an empty sample.
func Mean(values []int) (mean float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values)), true
}

// Median returns the 0.5 quantile of values. ok is false for an empty sample.
func Median(values []int) (float64, bool) {
	return Quantile(values, 0.5)
}

// Quantile returns the q-quantile of values using linear interpolation
// between closest ranks. q is clamped to [0, 1].
func Quantile(values []int, q float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return quantileSorted(sortedFloats(values), q), true
}

func sortedFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	sort.Float64s(out)
	return out
}

// quantileSorted expects a non-empty ascending slice.
func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	index := q * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
