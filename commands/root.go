// Package commands implements the julietscript-lint command surface.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seezatnap/julietscript/config"
	"github.com/seezatnap/julietscript/runner"
)

// ExitError carries a specific process exit code up to main. Message may be
// empty when the command already printed everything it had to say.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// NewRootCmd builds the root lint command with its subcommands.
func NewRootCmd() *cobra.Command {
	var (
		globs      []string
		root       string
		jobs       int
		watch      bool
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "julietscript-lint",
		Short: "Lint JulietScript files against the repository specification",
		Long: `julietscript-lint checks JulietScript workflow files and reports every
problem it finds: lexical errors, malformed declarations, references to
undeclared names, and structurally invalid blocks.

Files are selected with one or more --glob patterns (relative patterns
resolve against --root). Each diagnostic prints as

  path:line:character: severity: message

followed by a summary line. The exit status is 0 when every file lints
clean, 1 when diagnostics were reported, and 2 for operational failures
such as no files matching.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags only override config when the user actually set them.
			overrides := &config.Config{}
			if cmd.Flags().Changed("glob") {
				overrides.Globs = globs
			}
			if cmd.Flags().Changed("root") {
				overrides.Root = root
			}
			if cmd.Flags().Changed("jobs") {
				overrides.Jobs = jobs
			}
			if cmd.Flags().Changed("log-level") {
				overrides.LogLevel = logLevel
			}
			return runLint(cmd, configPath, overrides, watch)
		},
	}

	cmd.Flags().StringArrayVar(&globs, "glob", nil,
		"Glob pattern for JulietScript files. Pass multiple --glob flags to lint more patterns.")
	cmd.Flags().StringVar(&root, "root", ".",
		"Base directory used to resolve relative --glob patterns")
	cmd.Flags().IntVar(&jobs, "jobs", runtime.NumCPU(),
		"Maximum number of files linted in parallel")
	cmd.Flags().BoolVar(&watch, "watch", false,
		"Keep running and re-lint whenever a matched file changes")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Config file path (YAML)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")

	cmd.AddCommand(newExampleCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runLint(cmd *cobra.Command, configPath string, overrides *config.Config, watch bool) error {
	loader := config.NewLoader(nil)
	cfg, err := loader.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Merge(overrides)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(cfg.Globs) == 0 {
		return fmt.Errorf("no glob patterns provided; pass --glob or set globs in %s", config.ProjectConfigFile)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	r := runner.New(cfg.Root, cfg.Globs, cfg.Jobs, logger)

	if watch {
		return runWatch(cmd, r, cfg.Watch.Debounce)
	}

	results, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}

	summary := runner.WriteReport(cmd.OutOrStdout(), results)
	if summary.Issues > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// runWatch reprints the report after every debounced pass. When the watch is
// interrupted, the exit status reflects the last completed pass.
func runWatch(cmd *cobra.Command, r *runner.Runner, debounce time.Duration) error {
	w, err := runner.NewWatcher(r, debounce)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	var last runner.Summary
	err = w.Run(cmd.Context(), func(results []runner.FileResult) {
		last = runner.WriteReport(cmd.OutOrStdout(), results)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if last.Issues > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
