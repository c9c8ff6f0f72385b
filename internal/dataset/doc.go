// Package dataset loads the exam results table and publishes it as an
// immutable snapshot.
//
// A Dataset is built once from a delimited text file (read with gota) or an
// Excel workbook (read with excelize). Header names are matched without
// regard to case or surrounding whitespace, and a missing required column
// aborts the load before any row is parsed. The derived score columns are
// computed during the load and never change afterwards.
//
// A Store holds the current snapshot behind an atomic pointer. The optional
// Watcher reloads the file when it changes on disk and swaps in the new
// snapshot; readers holding the previous one are unaffected.
package dataset
