package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscdash/pkg/contracts/domain"
)

func TestBox(t *testing.T) {
	box, ok := Box([]int{1, 2, 3, 4, 5, 6, 7, 8, 100})
	require.True(t, ok)

	assert.Equal(t, 9, box.Count)
	assert.InDelta(t, 3, box.Q1, 1e-9)
	assert.InDelta(t, 5, box.Median, 1e-9)
	assert.InDelta(t, 7, box.Q3, 1e-9)
	assert.InDelta(t, 1, box.LowerFence, 1e-9)
	assert.InDelta(t, 8, box.UpperFence, 1e-9)
	assert.Equal(t, []float64{100}, box.Outliers)
	assert.Equal(t, float64(100), box.Max)
}

func TestBoxSingleValue(t *testing.T) {
	box, ok := Box([]int{42})
	require.True(t, ok)
	assert.Equal(t, float64(42), box.LowerFence)
	assert.Equal(t, float64(42), box.UpperFence)
	assert.Empty(t, box.Outliers)

	_, ok = Box(nil)
	assert.False(t, ok)
}

func TestBinEdges(t *testing.T) {
	edges := BinEdges(0, 100, 4)
	assert.Equal(t, []float64{0, 25, 50, 75, 100}, edges)

	assert.Equal(t, []float64{5, 6}, BinEdges(5, 5, 20))
	assert.Len(t, BinEdges(0, 10, 0), 2)
}

func TestHistogram(t *testing.T) {
	edges := BinEdges(0, 100, 4)
	values := []int{0, 10, 25, 60, 100, 100, 150}

	counts := Histogram(values, edges, domain.HistNormNone)
	require.Len(t, counts, 4)
	assert.Equal(t, []float64{2, 1, 1, 2}, barValues(counts))

	percent := Histogram(values, edges, domain.HistNormPercent)
	var sum float64
	for _, b := range percent {
		sum += b.Value
	}
	assert.InDelta(t, 100, sum, 1e-9)
	assert.InDelta(t, 100.0/3, percent[0].Value, 1e-9)
}

func TestHistogramEmpty(t *testing.T) {
	bars := Histogram(nil, BinEdges(0, 10, 2), domain.HistNormPercent)
	assert.Equal(t, []float64{0, 0}, barValues(bars))
	assert.Nil(t, Histogram([]int{1}, []float64{0}, domain.HistNormNone))
}

func barValues(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Value
	}
	return out
}
