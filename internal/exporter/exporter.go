package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"upscdash/internal/config"
)

// Write encodes d to w in the given format.
func Write(w io.Writer, format Format, d Data) error {
	switch format {
	case FormatCSV:
		return writeRowsCSV(w, d)
	case FormatXLSX:
		return writeXLSX(w, d)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidExportFormat, format)
	}
}

// Filename returns the timestamped export file name for format.
func Filename(format Format, at time.Time) string {
	return fmt.Sprintf(config.ExportFilePattern, at.Format(config.ExportTimeLayout), format.Extension())
}

// Exporter saves exports under the configured exports directory.
type Exporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// New creates an exporter writing below paths.ExportsDir.
func New(paths *config.Paths, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{paths: paths, logger: logger.With(slog.String("component", "exporter"))}
}

// Save writes d to path. A relative path is placed in the exports
// directory; an empty path gets a timestamped name. The written path is
// returned.
func (e *Exporter) Save(path string, format Format, d Data) (string, error) {
	if path == "" {
		path = Filename(format, time.Now())
	}
	if !filepath.IsAbs(path) {
		path = e.paths.ExportPath(path)
	}

	e.logger.Info("writing export",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("record_count", len(d.Rows)))

	if format == FormatCSV {
		if err := e.saveCSV(path, d); err != nil {
			return "", err
		}
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(f, format, d); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func (e *Exporter) saveCSV(path string, d Data) error {
	sw, err := CreateStreamWriter(path, RowsHeader)
	if err != nil {
		return err
	}
	for i, r := range d.Rows {
		if err := sw.WriteRecord(recordRow(r)); err != nil {
			sw.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return sw.Close()
}
