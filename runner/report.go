package runner

import (
	"fmt"
	"io"

	"github.com/seezatnap/julietscript/lint"
)

// Summary aggregates diagnostic counts across a set of file results.
type Summary struct {
	Files    int
	Issues   int
	Errors   int
	Warnings int
}

// Summarize counts the diagnostics in a set of file results.
func Summarize(results []FileResult) Summary {
	s := Summary{Files: len(results)}
	for _, fr := range results {
		for _, d := range fr.Diagnostics {
			s.Issues++
			switch d.Severity {
			case lint.SeverityError:
				s.Errors++
			case lint.SeverityWarning:
				s.Warnings++
			}
		}
	}
	return s
}

// WriteReport prints one line per diagnostic followed by a summary line.
// Diagnostic positions are zero-based internally; the report renders them
// one-based for editors and humans.
func WriteReport(w io.Writer, results []FileResult) Summary {
	for _, fr := range results {
		for _, d := range fr.Diagnostics {
			fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
				fr.Path,
				d.Range.Start.Line+1,
				d.Range.Start.Character+1,
				d.Severity,
				d.Message)
		}
	}

	s := Summarize(results)
	fmt.Fprintf(w, "Linted %d file(s): %d issue(s) (%d error(s), %d warning(s)).\n",
		s.Files, s.Issues, s.Errors, s.Warnings)
	return s
}
