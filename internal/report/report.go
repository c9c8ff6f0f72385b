// Package report prints dashboard summaries as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"upscdash/pkg/contracts/domain"
)

// Printer writes coloured section titles and tables to w.
type Printer struct {
	w       io.Writer
	title   *color.Color
	note    *color.Color
	warning *color.Color
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:       w,
		title:   color.New(color.FgYellow, color.Bold),
		note:    color.New(color.FgCyan),
		warning: color.New(color.FgRed),
	}
}

func (p *Printer) newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

// PrintView prints the constraints, category statistics, counts and decile
// thresholds of a rendered view.
func (p *Printer) PrintView(v *domain.ViewModel) {
	p.PrintConstraints(v.Constraints)
	p.note.Fprintf(p.w, "%d of %d rows selected\n", v.FilteredRows, v.TotalRows)

	if v.FilteredRows == 0 {
		p.warning.Fprintln(p.w, "No rows match the current constraints")
	} else {
		p.PrintStats(v.Stats)
		p.PrintCounts(v.Counts)
	}
	p.PrintThresholds(v.Thresholds)
}

// PrintConstraints prints the active filters.
func (p *Printer) PrintConstraints(c domain.Constraints) {
	p.title.Fprintln(p.w, "\nConstraints")
	table := p.newTable([]string{"Filter", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	categories := strings.Join(c.Categories, ", ")
	if len(c.Categories) == 0 {
		categories = "(none)"
	}
	table.Append([]string{"Categories", categories})
	table.Append([]string{"Written", formatRange(c.Written)})
	table.Append([]string{"Interview", formatRange(c.Interview)})
	table.Append([]string{"Year", formatRange(c.Year)})
	table.Append([]string{"Rank", formatRange(c.Rank)})
	table.Render()
}

// PrintStats prints the per-category means and medians.
func (p *Printer) PrintStats(stats []domain.CategoryStat) {
	p.title.Fprintln(p.w, "\nCategory Statistics")
	table := p.newTable([]string{"Category", "Count", "Mean Interview", "Median Interview", "Mean Written", "Median Written"})
	for _, s := range stats {
		table.Append([]string{
			s.Category,
			strconv.Itoa(s.Count),
			formatFloat(s.MeanInterview),
			formatFloat(s.MedianInterview),
			formatFloat(s.MeanWritten),
			formatFloat(s.MedianWritten),
		})
	}
	table.Render()
}

// PrintCounts prints the row count per category with its share.
func (p *Printer) PrintCounts(counts []domain.CategoryCount) {
	p.title.Fprintln(p.w, "\nCandidates per Category")

	total := 0
	for _, c := range counts {
		total += c.Count
	}

	table := p.newTable([]string{"Category", "Count", "Share"})
	for _, c := range counts {
		share := 0.0
		if total > 0 {
			share = float64(c.Count) * 100 / float64(total)
		}
		table.Append([]string{c.Category, strconv.Itoa(c.Count), fmt.Sprintf("%.1f%%", share)})
	}
	table.SetFooter([]string{"Total", strconv.Itoa(total), ""})
	table.Render()
}

// PrintThresholds prints the full-dataset decile thresholds.
func (p *Printer) PrintThresholds(t domain.DecileThresholds) {
	p.title.Fprintln(p.w, "\nDecile Thresholds (full dataset)")
	table := p.newTable([]string{"Score", "10th percentile", "90th percentile"})
	table.Append([]string{"Written", formatFloat(t.WrittenP10), formatFloat(t.WrittenP90)})
	table.Append([]string{"Interview", formatFloat(t.InterviewP10), formatFloat(t.InterviewP90)})
	table.Render()
}

// PrintExtremes prints at most limit rows of the top and bottom deciles.
// A limit of zero prints every row.
func (p *Printer) PrintExtremes(e domain.Extremes, limit int) {
	p.printRecords(fmt.Sprintf("\nTop Decile (%d)", len(e.Top)), e.Top, limit)
	p.printRecords(fmt.Sprintf("\nBottom Decile (%d)", len(e.Bottom)), e.Bottom, limit)
}

func (p *Printer) printRecords(title string, records []domain.Record, limit int) {
	p.title.Fprintln(p.w, title)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	table := p.newTable([]string{"Category", "Year", "Rank", "Written", "Interview", "Total"})
	for _, r := range records {
		table.Append([]string{
			r.Category,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Rank),
			strconv.Itoa(r.Written),
			strconv.Itoa(r.Interview),
			strconv.Itoa(r.Total),
		})
	}
	table.Render()
}

func formatRange(r domain.Range) string {
	s := fmt.Sprintf("%d - %d", r.Lo, r.Hi)
	if r.Inverted() {
		s += " (empty)"
	}
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
