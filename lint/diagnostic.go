// Package lint implements the JulietScript lint engine: a lexer, a
// recursive-descent parser with panic-mode recovery, a name resolver, and a
// structural validator. The single entry point is Lint, which maps source
// text to an ordered list of diagnostics and never fails.
package lint

import "sort"

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Position is a zero-based (line, character) location in source text.
// Character counts runes, not bytes.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a span of source text. End is exclusive and may be absent for
// diagnostics that mark a single point.
type Range struct {
	Start Position  `json:"start"`
	End   *Position `json:"end,omitempty"`
}

func newRange(start, end Position) Range {
	e := end
	return Range{Start: start, End: &e}
}

func pointRange(pos Position) Range {
	return Range{Start: pos}
}

// Diagnostic is a single finding produced by a lint stage.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Range    Range    `json:"range"`
}

func errorDiag(rng Range, msg string) Diagnostic {
	return Diagnostic{Severity: SeverityError, Message: msg, Range: rng}
}

// sortDiagnostics orders diagnostics by start position. The sort is stable so
// diagnostics at the same position keep their stage emission order.
func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Range.Start, diags[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
}
