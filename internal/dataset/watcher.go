package dataset

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when WatcherConfig.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// WatcherConfig configures dataset hot reload.
type WatcherConfig struct {
	Path     string
	Debounce time.Duration
}

// Watcher reloads the dataset file when it changes and publishes the new
// snapshot to a Store. A failed reload keeps the previous snapshot.
type Watcher struct {
	path     string
	debounce time.Duration
	loader   *Loader
	store    *Store
	logger   *slog.Logger

	lastHash [sha256.Size]byte
}

// NewWatcher creates a watcher for cfg.Path.
func NewWatcher(cfg WatcherConfig, loader *Loader, store *Store, logger *slog.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     filepath.Clean(cfg.Path),
		debounce: cfg.Debounce,
		loader:   loader,
		store:    store,
		logger:   logger.With(slog.String("component", "dataset_watcher")),
	}
}

// Run watches until ctx is cancelled. The parent directory is watched
// rather than the file so that editors which replace the file on save
// are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if h, err := hashFile(w.path); err == nil {
		w.lastHash = h
	}

	w.logger.Info("dataset watcher started",
		slog.String("path", w.path),
		slog.Duration("debounce", w.debounce))

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("dataset watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
				w.logger.Debug("dataset change detected", slog.String("op", event.Op.String()))
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			if pending {
				pending = false
				w.reload(ctx)
			}
		}
	}
}

// reload loads the file when its content differs from the last published
// snapshot.
func (w *Watcher) reload(ctx context.Context) {
	h, err := hashFile(w.path)
	if err != nil {
		// file is mid-replace or removed, a later event will retry
		w.logger.Warn("dataset file unreadable", slog.String("error", err.Error()))
		return
	}
	if h == w.lastHash {
		return
	}

	ds, err := w.loader.Load(ctx, w.path)
	if err != nil {
		w.logger.Error("dataset reload failed, keeping previous snapshot",
			slog.String("path", w.path),
			slog.String("error", err.Error()))
		return
	}
	w.lastHash = h

	prev := w.store.Publish(ds)
	attrs := []any{slog.String("snapshot_id", ds.SnapshotID()), slog.Int("rows", ds.Len())}
	if prev != nil {
		attrs = append(attrs, slog.String("previous_snapshot_id", prev.SnapshotID()))
	}
	w.logger.Info("dataset reloaded", attrs...)
}

func hashFile(path string) ([sha256.Size]byte, error) {
	var sum [sha256.Size]byte
	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, err
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
