package commands

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"
)

// ExampleScript is the annotated JulietScript example printed by the
// example subcommand. It exercises every construct the linter checks and
// lints clean, so it doubles as a starting point for new scripts.
//
//go:embed example.julietscript
var ExampleScript string

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print a deeply annotated JulietScript example that exercises the full linted specification",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), ExampleScript)
		},
	}
}
