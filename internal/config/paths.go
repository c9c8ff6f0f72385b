package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the file system locations the service touches.
// Relative entries of the configuration are resolved against BaseDir.
type Paths struct {
	BaseDir     string
	DatasetFile string
	LogFile     string
	LogsDir     string
	ExportsDir  string
}

// GetPaths resolves the configured paths against the working directory.
func (c *Config) GetPaths() (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return c.PathsFrom(wd), nil
}

// PathsFrom resolves the configured paths against baseDir.
func (c *Config) PathsFrom(baseDir string) *Paths {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	logFile := resolve(c.Logging.FilePath)
	return &Paths{
		BaseDir:     baseDir,
		DatasetFile: resolve(c.Dataset.Path),
		LogFile:     logFile,
		LogsDir:     filepath.Dir(logFile),
		ExportsDir:  resolve(c.Dataset.ExportDir),
	}
}

// EnsureDirectories creates the log and export directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.LogsDir, p.ExportsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExportPath returns the location of an export file.
func (p *Paths) ExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// ValidateRequiredFiles checks that the dataset file exists and is a regular file.
func (p *Paths) ValidateRequiredFiles() error {
	info, err := os.Stat(p.DatasetFile)
	if err != nil {
		return fmt.Errorf("dataset file %s: %w", p.DatasetFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("dataset file %s is a directory", p.DatasetFile)
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Info("path resolution summary",
		slog.String("base", p.BaseDir),
		slog.String("dataset", p.DatasetFile),
		slog.String("log_file", p.LogFile),
		slog.String("exports", p.ExportsDir),
		slog.Bool("dataset_exists", FileExists(p.DatasetFile)),
	)
}
