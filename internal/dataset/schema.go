package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Required input columns.
const (
	ColCategory  = "category"
	ColYear      = "year"
	ColRank      = "rank"
	ColInterview = "ptpct"
	ColWritten   = "wtpct"
	ColTotal     = "ftpct"
)

// RequiredColumns lists every column a results file must carry.
var RequiredColumns = []string{ColCategory, ColYear, ColRank, ColInterview, ColWritten, ColTotal}

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrEmptyDataset      = errors.New("dataset has no rows")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// SchemaError reports every required column absent from a header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumn, strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrMissingColumn) hold.
func (e *SchemaError) Is(target error) bool {
	return target == ErrMissingColumn
}

// columnIndex maps each required column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	seen := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeHeader(name)
		if _, dup := seen[key]; !dup {
			seen[key] = i
		}
	}

	index := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		i, ok := seen[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = i
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return index, nil
}

func normalizeHeader(name string) string {
	// spreadsheets exported on Windows often carry a BOM on the first cell
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.TrimSpace(name))
}
