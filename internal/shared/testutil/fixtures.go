package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ResultsHeader is the canonical header of a results file.
var ResultsHeader = []string{"category", "year", "rank", "ptpct", "wtpct", "ftpct"}

// ResultsRows is a small results table covering every colour-mapped category.
// Derived written: 1400 1085 1015 910 875. Interview: 165 143 137 121 110.
// Total: 1580 1215 1134 1012 972 (1579.5 and 1012.5 round half to even).
var ResultsRows = [][]string{
	{"GEN", "2007", "1", "0.6", "0.8", "0.78"},
	{"GEN", "2010", "120", "0.52", "0.62", "0.6"},
	{"OBC", "2012", "340", "0.5", "0.58", "0.56"},
	{"SC", "2015", "900", "0.44", "0.52", "0.5"},
	{"ST", "2017", "1250", "0.4", "0.5", "0.48"},
}

// WriteCSV writes header and rows as a delimited file under dir and
// returns its path.
func WriteCSV(t *testing.T, dir, name string, sep rune, header []string, rows [][]string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(header, string(sep)))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, string(sep)))
		b.WriteByte('\n')
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// WriteResultsCSV writes the canonical results fixture and returns its path.
func WriteResultsCSV(t *testing.T, dir string) string {
	t.Helper()
	return WriteCSV(t, dir, "results.csv", ',', ResultsHeader, ResultsRows)
}

// WriteXLSX writes header and rows to the named sheet of a new workbook.
func WriteXLSX(t *testing.T, dir, name, sheet string, header []string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		idx, err := f.NewSheet(sheet)
		require.NoError(t, err)
		f.SetActiveSheet(idx)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}

	write := func(rowNum int, values []string) {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	write(1, header)
	for i, row := range rows {
		write(i+2, row)
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}
