package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscdash/pkg/contracts/domain"
)

// decileRows has written = interview = 1..10 on the diagonal plus two
// off-diagonal rows that pass only one of the two thresholds.
func decileRows() []domain.Record {
	rows := make([]domain.Record, 0, 12)
	for i := 1; i <= 10; i++ {
		rows = append(rows, domain.Record{Category: "GEN", Rank: i, Written: i * 10, Interview: i})
	}
	rows = append(rows,
		domain.Record{Category: "OBC", Rank: 11, Written: 100, Interview: 1},
		domain.Record{Category: "SC", Rank: 12, Written: 10, Interview: 10},
	)
	return rows
}

func TestThresholds(t *testing.T) {
	th, ok := Thresholds(decileRows())
	require.True(t, ok)

	written, _ := Quantile(Values(decileRows(), domain.ColumnWritten), 0.9)
	assert.InDelta(t, written, th.WrittenP90, 1e-9)
	interview, _ := Quantile(Values(decileRows(), domain.ColumnInterview), 0.1)
	assert.InDelta(t, interview, th.InterviewP10, 1e-9)

	_, ok = Thresholds(nil)
	assert.False(t, ok)
}

func TestExtremesUseJointCondition(t *testing.T) {
	ex := Extremes(decileRows())

	for _, r := range ex.Top {
		assert.GreaterOrEqual(t, float64(r.Written), ex.Thresholds.WrittenP90)
		assert.GreaterOrEqual(t, float64(r.Interview), ex.Thresholds.InterviewP90)
	}
	for _, r := range ex.Bottom {
		assert.LessOrEqual(t, float64(r.Written), ex.Thresholds.WrittenP10)
		assert.LessOrEqual(t, float64(r.Interview), ex.Thresholds.InterviewP10)
	}

	// the off-diagonal rows pass only one threshold each
	assert.Equal(t, []int{10}, Values(ex.Top, domain.ColumnRank))
	assert.Equal(t, []int{1}, Values(ex.Bottom, domain.ColumnRank))
}

func TestThresholdsIgnoreInteractiveFilters(t *testing.T) {
	full := decileRows()
	before, _ := Thresholds(full)

	narrow := domain.Constraints{
		Categories: []string{"GEN"},
		Written:    domain.Range{Lo: 30, Hi: 60},
		Interview:  domain.Range{Lo: 3, Hi: 6},
		Year:       domain.Range{Lo: 0, Hi: 3000},
		Rank:       domain.Range{Lo: 1, Hi: 12},
	}
	_ = Filter(full, narrow)

	after, _ := Thresholds(full)
	assert.Equal(t, before, after)
	assert.Equal(t, before, Extremes(full).Thresholds)
}

func TestExtremesEmpty(t *testing.T) {
	ex := Extremes(nil)
	assert.NotNil(t, ex.Top)
	assert.NotNil(t, ex.Bottom)
	assert.Empty(t, ex.Top)
	assert.Equal(t, domain.DecileThresholds{}, ex.Thresholds)
}
