package domain

// ChartKind identifies how a client should draw a ChartSpec.
type ChartKind string

const (
	ChartScatter   ChartKind = "scatter"
	ChartPie       ChartKind = "pie"
	ChartBox       ChartKind = "box"
	ChartHistogram ChartKind = "histogram"
)

// Histogram normalisation modes.
const (
	HistNormNone    = ""
	HistNormPercent = "percent"
)

// ChartSpec is a framework-neutral description of one chart. Only the
// fields relevant to Kind are populated.
type ChartSpec struct {
	ID     string    `json:"id"`
	Kind   ChartKind `json:"kind"`
	Header string    `json:"header,omitempty"`
	Title  string    `json:"title,omitempty"`
	XAxis  string    `json:"x_axis,omitempty"`
	YAxis  string    `json:"y_axis,omitempty"`

	Series []Series   `json:"series,omitempty"`
	Slices []PieSlice `json:"slices,omitempty"`
	Boxes  []BoxTrace `json:"boxes,omitempty"`
	Shapes []Shape    `json:"shapes,omitempty"`

	CategoryOrder []string `json:"category_order,omitempty"`
	BarMode       string   `json:"bar_mode,omitempty"`
	HistNorm      string   `json:"hist_norm,omitempty"`
	Marginal      string   `json:"marginal,omitempty"`
	TextPosition  string   `json:"text_position,omitempty"`
	TextInfo      string   `json:"text_info,omitempty"`
	Hole          float64  `json:"hole,omitempty"`
	Opacity       float64  `json:"opacity,omitempty"`
}

// Series is one coloured trace of a scatter or histogram chart.
type Series struct {
	Name   string      `json:"name"`
	Color  string      `json:"color"`
	Points []Point     `json:"points,omitempty"`
	Bars   []Bar       `json:"bars,omitempty"`
	Box    *BoxSummary `json:"box,omitempty"`
}

// Point is a scatter marker. Text is drawn next to the marker when set.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text,omitempty"`
}

// Bar is one histogram bin: [Start, End) except the last bin, which is closed.
type Bar struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Value float64 `json:"value"`
}

// PieSlice is one weighted pie sector.
type PieSlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// BoxTrace is the box summary of one category.
type BoxTrace struct {
	Category string     `json:"category"`
	Color    string     `json:"color"`
	Summary  BoxSummary `json:"summary"`
}

// BoxSummary holds a Tukey box: quartiles, 1.5 IQR whiskers and outliers.
type BoxSummary struct {
	Count      int       `json:"count"`
	Min        float64   `json:"min"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	Max        float64   `json:"max"`
	Mean       float64   `json:"mean"`
	LowerFence float64   `json:"lower_fence"`
	UpperFence float64   `json:"upper_fence"`
	Outliers   []float64 `json:"outliers,omitempty"`
}

// Shape is a layout annotation line.
type Shape struct {
	Type  string  `json:"type"`
	X0    float64 `json:"x0"`
	X1    float64 `json:"x1"`
	Y0    float64 `json:"y0"`
	Y1    float64 `json:"y1"`
	Color string  `json:"color"`
	Width int     `json:"width"`
}

// CategoryStat is one row of the per-category aggregate table.
type CategoryStat struct {
	Category        string  `json:"category"`
	Count           int     `json:"count"`
	MeanInterview   float64 `json:"mean_interview"`
	MedianInterview float64 `json:"median_interview"`
	MeanWritten     float64 `json:"mean_written"`
	MedianWritten   float64 `json:"median_written"`
}

// CategoryCount is the number of rows of one category in a view.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DecileThresholds are the 10th and 90th percentiles of the full dataset.
type DecileThresholds struct {
	WrittenP10   float64 `json:"written_p10"`
	WrittenP90   float64 `json:"written_p90"`
	InterviewP10 float64 `json:"interview_p10"`
	InterviewP90 float64 `json:"interview_p90"`
}

// Extremes are the joint top and bottom decile subsets of the full dataset.
type Extremes struct {
	Thresholds DecileThresholds `json:"thresholds"`
	Top        []Record         `json:"top"`
	Bottom     []Record         `json:"bottom"`
}

// ViewModel is everything a client needs to draw one dashboard state.
type ViewModel struct {
	Constraints  Constraints      `json:"constraints"`
	TotalRows    int              `json:"total_rows"`
	FilteredRows int              `json:"filtered_rows"`
	Stats        []CategoryStat   `json:"stats"`
	Counts       []CategoryCount  `json:"counts"`
	Thresholds   DecileThresholds `json:"thresholds"`
	Charts       []ChartSpec      `json:"charts"`
}

// Chart returns the chart with the given id.
func (v *ViewModel) Chart(id string) (ChartSpec, bool) {
	for _, c := range v.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return ChartSpec{}, false
}
