// Package exporter writes the filtered view of the results table to CSV and
// Excel files.
//
// A Data value carries the filtered rows together with the per-category
// statistics and counts computed for the same constraints. CSV output holds
// the rows only, prefixed with a UTF-8 BOM so spreadsheet applications pick
// the right encoding. XLSX output adds sheets for the statistics, the counts
// and the constraints that produced the view.
//
// Example usage:
//
//	format, err := exporter.ParseFormat("xlsx")
//	if err != nil {
//	    return err
//	}
//	err = exporter.Write(w, format, data)
package exporter
