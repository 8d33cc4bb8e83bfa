package runner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs a Runner whenever a file matching its globs changes.
// Changes are debounced so a burst of writes triggers one lint pass.
type Watcher struct {
	runner   *Runner
	root     string
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op
}

// NewWatcher creates a watcher over the runner's root directory.
func NewWatcher(r *Runner, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	root, err := filepath.Abs(r.root)
	if err != nil {
		fsw.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	return &Watcher{
		runner:   r,
		root:     root,
		watcher:  fsw,
		logger:   r.logger,
		debounce: debounce,
		pending:  make(map[string]fsnotify.Op),
	}, nil
}

// Run lints once, then blocks watching for changes until ctx is canceled.
// onResults receives the results of every completed pass, the initial one
// included. A pass that matches no files keeps the watch alive; only
// pattern errors on the initial pass abort.
func (w *Watcher) Run(ctx context.Context, onResults func([]FileResult)) error {
	defer w.watcher.Close()

	if err := w.runPass(ctx, onResults); err != nil {
		return err
	}

	if err := w.addWatchesRecursive(w.root); err != nil {
		return err
	}

	w.logger.Info("watching for changes",
		"root", w.root,
		"debounce", w.debounce)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			if w.takePending() {
				if err := w.rerun(ctx, onResults); err != nil {
					return err
				}
			}
		}
	}
}

// runPass runs one lint pass, tolerating empty matches.
func (w *Watcher) runPass(ctx context.Context, onResults func([]FileResult)) error {
	results, err := w.runner.Run(ctx)
	if err != nil {
		if errors.Is(err, ErrNoFilesMatched) {
			w.logger.Warn("no files matched; waiting for changes", "error", err)
			return nil
		}
		return err
	}
	onResults(results)
	return nil
}

// rerun runs a debounced pass. Unlike the initial pass, transient failures
// only log so an editor save mid-write cannot kill the watch loop.
func (w *Watcher) rerun(ctx context.Context, onResults func([]FileResult)) error {
	if err := w.runPass(ctx, onResults); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.logger.Error("lint pass failed", "error", err)
	}
	return nil
}

// addWatchesRecursive adds watches to all directories under root
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Only watch directories
		if !info.IsDir() {
			return nil
		}

		// Skip hidden directories
		if base := filepath.Base(path); strings.HasPrefix(base, ".") && path != root {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("watching directory", "path", path)
		}

		return nil
	})
}

// handleFSEvent processes a single fsnotify event
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	// Only care about files matching the configured globs
	if !w.matchesAny(path) {
		// But handle directory creation (for new watches)
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	// Accumulate pending changes
	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("file change detected",
		"path", path,
		"op", event.Op.String())
}

// handleNewDirectory adds a watch to a newly created directory
func (w *Watcher) handleNewDirectory(path string) {
	if base := filepath.Base(path); strings.HasPrefix(base, ".") {
		return
	}

	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("failed to watch new directory",
			"path", path,
			"error", err)
	} else {
		w.logger.Debug("added watch for new directory", "path", path)
	}
}

// takePending reports whether changes accumulated since the last tick and
// clears them. The paths themselves don't matter: every pass re-expands the
// globs and lints everything, so deletes and renames need no special case.
func (w *Watcher) takePending() bool {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if len(w.pending) == 0 {
		return false
	}
	w.pending = make(map[string]fsnotify.Op)
	return true
}

// matchesAny reports whether path matches any configured glob pattern.
func (w *Watcher) matchesAny(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.runner.globs {
		if filepath.IsAbs(pattern) {
			if ok, err := doublestar.PathMatch(filepath.ToSlash(pattern), filepath.ToSlash(path)); err == nil && ok {
				return true
			}
			continue
		}
		if ok, err := doublestar.PathMatch(filepath.ToSlash(pattern), rel); err == nil && ok {
			return true
		}
	}
	return false
}
