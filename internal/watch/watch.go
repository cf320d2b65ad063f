// Package watch reloads the listings dataset when the source file changes
// on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"housemap/internal/dataset"
)

// Target receives a freshly loaded dataset. The session service implements
// this.
type Target interface {
	ReplaceDataset(ds *dataset.Dataset)
}

// DefaultDebounce coalesces the burst of events a single save produces into
// one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads the dataset file after changes settle. It watches the
// parent directory rather than the file itself, so editors that save by
// renaming a temp file into place still produce events.
type Watcher struct {
	path     string
	target   Target
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New prepares a watcher for the dataset at path. Call Run to start it.
func New(path string, target Target, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{path: abs, target: target, debounce: debounce, fsw: fsw}, nil
}

// Run blocks until ctx is cancelled, reloading the dataset whenever the
// watched file changes. A reload that fails to parse is logged and the
// current dataset stays in place.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()
	slog.Info("watching dataset file", "path", w.path, "debounce", w.debounce)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			pending = time.After(w.debounce)

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("dataset watch error", "error", err)
		}
	}
}

// relevant reports whether the event is a content change of the watched
// file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	abs, err := filepath.Abs(ev.Name)
	if err != nil || abs != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	start := time.Now()
	ds, err := dataset.ReadFile(w.path)
	if err != nil {
		slog.Error("dataset reload failed, keeping current data", "path", w.path, "error", err)
		return
	}
	w.target.ReplaceDataset(ds)
	slog.Info("dataset reloaded",
		"path", w.path,
		"rows", ds.RowCount(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	if stats := ds.Stats(); stats.ParseWarnings > 0 {
		slog.Warn("dataset parse warnings",
			"count", stats.ParseWarnings,
			"samples", stats.WarningSamples)
	}
}
