package exporter

import (
	"fmt"
	"strings"

	"upscdash/pkg/contracts/domain"
)

// Data is one exported view.
type Data struct {
	SnapshotID  string
	Constraints domain.Constraints
	Rows        []domain.Record
	Stats       []domain.CategoryStat
	Counts      []domain.CategoryCount
}

// RowsHeader names the columns of the rows table: the raw input columns
// followed by the derived marks.
var RowsHeader = []string{
	"category", "year", "rank", "ptpct", "wtpct", "ftpct",
	"interview", "written", "total",
}

var statsHeader = []string{
	"category", "count", "mean_interview", "median_interview", "mean_written", "median_written",
}

var countsHeader = []string{"category", "count"}

func recordRow(r domain.Record) []string {
	return []string{
		r.Category,
		formatInt(r.Year),
		formatInt(r.Rank),
		formatFraction(r.InterviewFraction),
		formatFraction(r.WrittenFraction),
		formatFraction(r.TotalFraction),
		formatInt(r.Interview),
		formatInt(r.Written),
		formatInt(r.Total),
	}
}

func statRow(s domain.CategoryStat) []string {
	return []string{
		s.Category,
		formatInt(s.Count),
		formatFloat(s.MeanInterview),
		formatFloat(s.MedianInterview),
		formatFloat(s.MeanWritten),
		formatFloat(s.MedianWritten),
	}
}

func countRow(c domain.CategoryCount) []string {
	return []string{c.Category, formatInt(c.Count)}
}

func constraintRows(c domain.Constraints) [][]string {
	rng := func(r domain.Range) string { return fmt.Sprintf("%d-%d", r.Lo, r.Hi) }
	return [][]string{
		{"categories", strings.Join(c.Categories, ", ")},
		{"written", rng(c.Written)},
		{"interview", rng(c.Interview)},
		{"year", rng(c.Year)},
		{"rank", rng(c.Rank)},
	}
}
