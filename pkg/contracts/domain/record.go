package domain

// Column names a numeric field of a Record.
type Column string

const (
	ColumnWritten   Column = "written"
	ColumnInterview Column = "interview"
	ColumnTotal     Column = "total"
	ColumnYear      Column = "year"
	ColumnRank      Column = "rank"
)

// Record represents one exam candidate. The integer score columns are
// derived from the raw fractions once, when the dataset is loaded.
type Record struct {
	Category  string `json:"category"`
	Year      int    `json:"year"`
	Rank      int    `json:"rank"`
	Interview int    `json:"interview"`
	Written   int    `json:"written"`
	Total     int    `json:"total"`

	InterviewFraction float64 `json:"ptpct"`
	WrittenFraction   float64 `json:"wtpct"`
	TotalFraction     float64 `json:"ftpct"`
}

// Value returns the integer value of col. Unknown columns return 0.
func (r Record) Value(col Column) int {
	switch col {
	case ColumnWritten:
		return r.Written
	case ColumnInterview:
		return r.Interview
	case ColumnTotal:
		return r.Total
	case ColumnYear:
		return r.Year
	case ColumnRank:
		return r.Rank
	default:
		return 0
	}
}
