package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "upscdash/internal/errors"
	"upscdash/pkg/contracts/domain"
)

const tracerName = "upscdash.dataset"

// Format is the container format of a results file.
type Format string

const (
	FormatDelimited Format = "delimited"
	FormatXLSX      Format = "xlsx"
)

// DetectFormat picks a Format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return FormatDelimited, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadRecorder receives the outcome of every load. Implemented by the
// telemetry layer.
type LoadRecorder interface {
	RecordDatasetLoad(ctx context.Context, rows int, duration time.Duration, err error)
}

// LoaderOptions configures how results files are read.
type LoaderOptions struct {
	// Delimiter separates fields of delimited files. Zero means ',' or,
	// for .tsv files, tab.
	Delimiter rune
	// Sheet names the workbook sheet to read. Empty means the first sheet.
	Sheet string
}

// Loader reads results files into Dataset snapshots.
type Loader struct {
	opts     LoaderOptions
	logger   *slog.Logger
	recorder LoadRecorder
}

// NewLoader creates a loader. recorder may be nil.
func NewLoader(opts LoaderOptions, logger *slog.Logger, recorder LoadRecorder) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		opts:     opts,
		logger:   logger.With(slog.String("component", "dataset_loader")),
		recorder: recorder,
	}
}

// Load reads path and builds a snapshot. Schema problems are reported as
// errors of type apperrors.ErrTypeSchema wrapping ErrMissingColumn or
// ErrEmptyDataset; malformed cells as apperrors.ErrTypeParsing.
func (l *Loader) Load(ctx context.Context, path string) (ds *Dataset, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dataset.load")
	defer span.End()
	span.SetAttributes(attribute.String("dataset.path", path))

	start := time.Now()
	defer func() {
		if l.recorder != nil {
			rows := 0
			if ds != nil {
				rows = ds.Len()
			}
			l.recorder.RecordDatasetLoad(ctx, rows, time.Since(start), err)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	format, err := DetectFormat(path)
	if err != nil {
		return nil, apperrors.NewConfigError("dataset format", err).WithContext("path", path)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperrors.NewNotFoundError("dataset file").WithContext("path", path)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("open dataset", err).WithContext("path", path)
	}
	defer f.Close()

	ds, err = l.Read(ctx, f, format, path)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("dataset.rows", ds.Len()),
		attribute.Int("dataset.categories", len(ds.categories)),
	)
	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.String("snapshot_id", ds.SnapshotID()),
		slog.Int("rows", ds.Len()),
		slog.Any("categories", ds.Categories()),
		slog.Duration("duration", time.Since(start)),
	)
	return ds, nil
}

// Read builds a snapshot from r. source is recorded on the snapshot and is
// also used to pick the default delimiter.
func (l *Loader) Read(ctx context.Context, r io.Reader, format Format, source string) (*Dataset, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatDelimited:
		rows, err = readDelimited(r, l.delimiter(source))
	case FormatXLSX:
		rows, err = readWorkbook(r, l.opts.Sheet)
	default:
		err = apperrors.NewConfigError("dataset format", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewSchemaError("results file has no header", ErrEmptyDataset)
	}

	records, err := parseRecords(rows[0], rows[1:])
	if err != nil {
		return nil, err
	}
	ds, err := New(records, source)
	if err != nil {
		return nil, apperrors.NewSchemaError("results file", err)
	}
	return ds, nil
}

func (l *Loader) delimiter(source string) rune {
	if l.opts.Delimiter != 0 {
		return l.opts.Delimiter
	}
	if strings.EqualFold(filepath.Ext(source), ".tsv") {
		return '\t'
	}
	return ','
}

// readDelimited returns the header followed by every data row as strings.
func readDelimited(r io.Reader, delim rune) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewStorageError("read delimited file", err)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		// gota refuses a header without rows
		if nonBlankLines(data) < 2 {
			return nil, apperrors.NewSchemaError("results file has no data rows", ErrEmptyDataset)
		}
		return nil, apperrors.NewParsingError("read delimited file", df.Err)
	}
	return df.Records(), nil
}

func nonBlankLines(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}

func readWorkbook(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("open workbook", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewSchemaError("workbook has no sheets", ErrEmptyDataset)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("read sheet %q", sheet), err)
	}
	return rows, nil
}

func parseRecords(header []string, rows [][]string) ([]domain.Record, error) {
	idx, err := columnIndex(header)
	if err != nil {
		return nil, apperrors.NewSchemaError("results file header", err)
	}

	records := make([]domain.Record, 0, len(rows))
	for i, row := range rows {
		if blank(row) {
			continue
		}
		rec, err := parseRecord(row, idx)
		if err != nil {
			// +2: one for the header, one for 1-based numbering
			line := i + 2
			return nil, apperrors.NewParsingError(fmt.Sprintf("row %d", line), err).WithContext("row", line)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(row []string, idx map[string]int) (domain.Record, error) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec domain.Record
	var err error

	rec.Category = cell(ColCategory)
	if rec.Category == "" {
		return rec, fmt.Errorf("%s is empty", ColCategory)
	}
	if rec.Year, err = parseInt(ColYear, cell(ColYear)); err != nil {
		return rec, err
	}
	if rec.Rank, err = parseInt(ColRank, cell(ColRank)); err != nil {
		return rec, err
	}
	if rec.Rank < 1 {
		return rec, fmt.Errorf("%s must be positive, got %d", ColRank, rec.Rank)
	}
	if rec.InterviewFraction, err = parseFraction(ColInterview, cell(ColInterview)); err != nil {
		return rec, err
	}
	if rec.WrittenFraction, err = parseFraction(ColWritten, cell(ColWritten)); err != nil {
		return rec, err
	}
	if rec.TotalFraction, err = parseFraction(ColTotal, cell(ColTotal)); err != nil {
		return rec, err
	}

	rec.Interview = DeriveInterview(rec.InterviewFraction)
	rec.Written = DeriveWritten(rec.WrittenFraction)
	rec.Total = DeriveTotal(rec.TotalFraction)
	return rec, nil
}

// parseInt accepts integral floats such as "2012.0", which spreadsheet
// exports produce.
func parseInt(col, s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %q is not an integer", col, s)
	}
	return int(f), nil
}

func parseFraction(col, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %q is not a number", col, s)
	}
	return f, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
