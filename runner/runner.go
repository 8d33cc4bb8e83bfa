// Package runner expands glob patterns into script files, lints each file,
// and renders the collected diagnostics as reports.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/seezatnap/julietscript/lint"
)

// ErrNoFilesMatched indicates that no glob pattern matched any file.
var ErrNoFilesMatched = errors.New("no files matched")

// FileResult pairs one linted file with its diagnostics.
type FileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
}

// Runner lints every file matched by a set of glob patterns.
type Runner struct {
	root   string
	globs  []string
	jobs   int
	logger *slog.Logger
}

// New creates a Runner. Relative globs resolve against root. jobs bounds how
// many files are linted concurrently; values below one fall back to the
// number of CPUs.
func New(root string, globs []string, jobs int, logger *slog.Logger) *Runner {
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		root:   root,
		globs:  globs,
		jobs:   jobs,
		logger: logger,
	}
}

// Run expands the configured globs and lints every matched file, at most
// jobs files at a time. Results are ordered by path regardless of which
// file finished first. Returns an error wrapping ErrNoFilesMatched when
// the patterns match nothing.
func (r *Runner) Run(ctx context.Context) ([]FileResult, error) {
	runID := uuid.New().String()
	start := time.Now()

	files, err := ExpandGlobs(r.root, r.globs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w. Provided patterns: %s", ErrNoFilesMatched, strings.Join(r.globs, ", "))
	}

	r.logger.Debug("lint pass started",
		"run_id", runID,
		"files", len(files),
		"jobs", r.jobs)

	results := make([]FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			results[i] = FileResult{
				Path:        path,
				Diagnostics: lint.Lint(string(data)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(results)
	r.logger.Info("lint pass complete",
		"run_id", runID,
		"files", summary.Files,
		"issues", summary.Issues,
		"duration", time.Since(start))

	return results, nil
}
