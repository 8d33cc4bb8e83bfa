package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newTestWatcher(t *testing.T, dir string, globs []string) *Watcher {
	t.Helper()
	w, err := NewWatcher(New(dir, globs, 2, discardLogger()), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	return w
}

// startWatcher runs w in the background, funneling every completed pass
// into the returned channel. The error channel receives Run's result once.
func startWatcher(ctx context.Context, w *Watcher) (<-chan []FileResult, <-chan error) {
	passes := make(chan []FileResult, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(results []FileResult) {
			passes <- results
		})
	}()
	return passes, done
}

func nextPass(t *testing.T, passes <-chan []FileResult, done <-chan error) []FileResult {
	t.Helper()
	select {
	case results := <-passes:
		return results
	case err := <-done:
		t.Fatalf("watcher exited before completing a pass: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for a lint pass")
	}
	return nil
}

// passWithFiles waits for a pass covering want files, skipping passes that
// ran while files were still landing.
func passWithFiles(t *testing.T, passes <-chan []FileResult, done <-chan error, want int) []FileResult {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case results := <-passes:
			if len(results) == want {
				return results
			}
		case err := <-done:
			t.Fatalf("watcher exited before completing a pass: %v", err)
		case <-deadline:
			t.Fatalf("timeout waiting for a lint pass over %d files", want)
		}
	}
}

func TestWatcher_InitialPassAndCancel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.julietscript"), "rubric q {\n}\n")
	writeFile(t, filepath.Join(dir, "clean.julietscript"), "policy p = \"steady\";\nhalt;\n")

	w := newTestWatcher(t, dir, []string{"*.julietscript"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	passes, done := startWatcher(ctx, w)

	results := nextPass(t, passes, done)
	if len(results) != 2 {
		t.Fatalf("expected 2 results in the initial pass, got %d", len(results))
	}
	if filepath.Base(results[0].Path) != "broken.julietscript" {
		t.Errorf("expected broken.julietscript first, got %s", results[0].Path)
	}
	if len(results[0].Diagnostics) != 1 {
		t.Errorf("expected 1 diagnostic for broken.julietscript, got %d", len(results[0].Diagnostics))
	}
	if len(results[1].Diagnostics) != 0 {
		t.Errorf("expected clean.julietscript to lint clean, got %v", results[1].Diagnostics)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for the watcher to stop")
	}
}

func TestWatcher_RelintsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "pipeline.julietscript")
	writeFile(t, script, "policy p = \"steady\";\nhalt;\n")

	w := newTestWatcher(t, dir, []string{"*.julietscript"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	passes, done := startWatcher(ctx, w)

	initial := nextPass(t, passes, done)
	if len(initial) != 1 || len(initial[0].Diagnostics) != 0 {
		t.Fatalf("expected one clean result in the initial pass, got %v", initial)
	}

	// Give the directory watches time to establish.
	time.Sleep(100 * time.Millisecond)

	writeFile(t, script, "rubric q {\n}\n")

	relint := nextPass(t, passes, done)
	if len(relint) != 1 {
		t.Fatalf("expected 1 result in the re-lint pass, got %d", len(relint))
	}
	if len(relint[0].Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic after the change, got %d", len(relint[0].Diagnostics))
	}
	if got := relint[0].Diagnostics[0].Message; got != "Rubric 'q' must declare at least one criterion." {
		t.Errorf("unexpected diagnostic: %s", got)
	}
}

func TestWatcher_PicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "first.julietscript"), "halt;\n")

	w := newTestWatcher(t, dir, []string{"**/*.julietscript"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	passes, done := startWatcher(ctx, w)

	initial := nextPass(t, passes, done)
	if len(initial) != 1 {
		t.Fatalf("expected 1 result in the initial pass, got %d", len(initial))
	}

	// Give the directory watches time to establish.
	time.Sleep(100 * time.Millisecond)

	// A directory created while watching gets its own watch; give the event
	// loop a beat to add it before writing into it.
	subDir := filepath.Join(dir, "sub")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", subDir, err)
	}
	time.Sleep(100 * time.Millisecond)

	writeFile(t, filepath.Join(subDir, "second.julietscript"), "rubric q {\n}\n")
	writeFile(t, filepath.Join(dir, "third.julietscript"), "halt;\n")

	results := passWithFiles(t, passes, done, 3)
	var second *FileResult
	for i := range results {
		if filepath.Base(results[i].Path) == "second.julietscript" {
			second = &results[i]
		}
	}
	if second == nil {
		t.Fatalf("expected sub/second.julietscript in the pass, got %v", results)
	}
	if len(second.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic for the new file, got %d", len(second.Diagnostics))
	}
	if got := second.Diagnostics[0].Message; got != "Rubric 'q' must declare at least one criterion." {
		t.Errorf("unexpected diagnostic: %s", got)
	}
}

func TestWatcher_NoInitialMatches(t *testing.T) {
	dir := t.TempDir()

	w := newTestWatcher(t, dir, []string{"*.julietscript"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	passes, done := startWatcher(ctx, w)

	// No pass is delivered while nothing matches; the watch stays alive.
	select {
	case results := <-passes:
		t.Fatalf("unexpected pass before any file exists: %v", results)
	case err := <-done:
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	writeFile(t, filepath.Join(dir, "late.julietscript"), "rubric q {\n}\n")

	results := nextPass(t, passes, done)
	if len(results) != 1 {
		t.Fatalf("expected 1 result once a file appears, got %d", len(results))
	}
	if len(results[0].Diagnostics) != 1 {
		t.Errorf("expected 1 diagnostic, got %d", len(results[0].Diagnostics))
	}
}

func TestWatcher_MatchesConfiguredGlobs(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		globs []string
		path  string
		want  bool
	}{
		{
			name:  "relative single level",
			globs: []string{"*.julietscript"},
			path:  filepath.Join(dir, "a.julietscript"),
			want:  true,
		},
		{
			name:  "relative recursive",
			globs: []string{"**/*.julietscript"},
			path:  filepath.Join(dir, "sub", "b.julietscript"),
			want:  true,
		},
		{
			name:  "extension mismatch",
			globs: []string{"**/*.julietscript"},
			path:  filepath.Join(dir, "notes.md"),
			want:  false,
		},
		{
			name:  "nested file against single level pattern",
			globs: []string{"*.julietscript"},
			path:  filepath.Join(dir, "sub", "c.julietscript"),
			want:  false,
		},
		{
			name:  "absolute pattern",
			globs: []string{filepath.Join(dir, "scripts", "*.julietscript")},
			path:  filepath.Join(dir, "scripts", "d.julietscript"),
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWatcher(t, dir, tt.globs)
			defer w.watcher.Close()

			if got := w.matchesAny(tt.path); got != tt.want {
				t.Errorf("matchesAny(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWatcher_PendingDrainsOnce(t *testing.T) {
	dir := t.TempDir()

	w := newTestWatcher(t, dir, []string{"*.julietscript"})
	defer w.watcher.Close()

	if w.takePending() {
		t.Error("expected no pending changes on a fresh watcher")
	}

	// A burst of writes on a matched file collapses into one pending rerun.
	w.handleFSEvent(fsnotify.Event{Name: filepath.Join(dir, "a.julietscript"), Op: fsnotify.Write})
	w.handleFSEvent(fsnotify.Event{Name: filepath.Join(dir, "a.julietscript"), Op: fsnotify.Write})
	w.handleFSEvent(fsnotify.Event{Name: filepath.Join(dir, "ignored.md"), Op: fsnotify.Write})

	if !w.takePending() {
		t.Error("expected pending changes after writes to a matched file")
	}
	if w.takePending() {
		t.Error("expected pending changes to drain after one take")
	}
}

func TestNewWatcher_DefaultDebounce(t *testing.T) {
	w, err := NewWatcher(New(t.TempDir(), []string{"*.julietscript"}, 1, discardLogger()), 0)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.watcher.Close()

	if w.debounce != 250*time.Millisecond {
		t.Errorf("expected 250ms default debounce, got %v", w.debounce)
	}
}
