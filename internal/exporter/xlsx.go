package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetRows        = "Rows"
	SheetStats       = "Category Stats"
	SheetCounts      = "Counts"
	SheetConstraints = "Constraints"
)

// writeXLSX builds a workbook with one sheet per table of d.
func writeXLSX(w io.Writer, d Data) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRows); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	rows := make([][]string, 0, len(d.Rows))
	for _, r := range d.Rows {
		rows = append(rows, recordRow(r))
	}
	if err := writeSheet(f, SheetRows, RowsHeader, rows); err != nil {
		return err
	}

	stats := make([][]string, 0, len(d.Stats))
	for _, s := range d.Stats {
		stats = append(stats, statRow(s))
	}
	if err := writeSheet(f, SheetStats, statsHeader, stats); err != nil {
		return err
	}

	counts := make([][]string, 0, len(d.Counts))
	for _, c := range d.Counts {
		counts = append(counts, countRow(c))
	}
	if err := writeSheet(f, SheetCounts, countsHeader, counts); err != nil {
		return err
	}

	constraints := constraintRows(d.Constraints)
	if d.SnapshotID != "" {
		constraints = append(constraints, []string{"snapshot_id", d.SnapshotID})
	}
	if err := writeSheet(f, SheetConstraints, []string{"field", "value"}, constraints); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeSheet creates sheet when missing and fills it from A1. Numeric
// strings are stored as numbers so spreadsheets can sort and sum them.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	put := func(rowNum int, values []string, numeric bool) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			var value any = v
			if numeric {
				value = cellValue(v)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
			}
		}
		return nil
	}

	if err := put(1, header, false); err != nil {
		return err
	}
	for i, row := range rows {
		if err := put(i+2, row, true); err != nil {
			return err
		}
	}
	return nil
}
