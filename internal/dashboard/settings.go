package dashboard

import "upscdash/pkg/contracts/domain"

// Settings holds the control layout and chart parameters.
type Settings struct {
	ScoreStep     int
	YearStep      int
	RankStep      int
	YearBounds    domain.Range
	RankBounds    domain.Range
	HistogramBins int
}

// DefaultSettings returns the standard dashboard layout.
func DefaultSettings() Settings {
	return Settings{
		ScoreStep:     25,
		YearStep:      1,
		RankStep:      25,
		YearBounds:    domain.Range{Lo: 2007, Hi: 2017},
		RankBounds:    domain.Range{Lo: 1, Hi: 1250},
		HistogramBins: 20,
	}
}
