package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validateSource runs the validator over a syntactically clean fixture.
func validateSource(t *testing.T, src string) []Diagnostic {
	t.Helper()
	tokens, lexDiags := newLexer(src).scan()
	require.Empty(t, lexDiags, "fixture must be lexically clean")
	decls, parseDiags := parse(tokens)
	require.Empty(t, parseDiags, "fixture must be syntactically clean")
	return validate(decls)
}

func TestValidator_RubricRequiresCriterion(t *testing.T) {
	diags := validateSource(t, "rubric empty {\n}\n")

	require.Len(t, diags, 1)
	assert.Equal(t, "Rubric 'empty' must declare at least one criterion.", diags[0].Message)
	assert.Equal(t, Position{Line: 0, Character: 7}, diags[0].Range.Start)
}

func TestValidator_CadenceRequiredClauses(t *testing.T) {
	diags := validateSource(t, "cadence loop {\n}\n")

	require.Len(t, diags, 4)
	msgs := diagMessages(diags)
	assert.Contains(t, msgs, "Cadence 'loop' must set 'variants'.")
	assert.Contains(t, msgs, "Cadence 'loop' must set 'sprints'.")
	assert.Contains(t, msgs, "Cadence 'loop' must declare 'compare using'.")
	assert.Contains(t, msgs, "Cadence 'loop' must declare 'keep best'.")
}

func TestValidator_CadenceCountsMustBePositiveIntegers(t *testing.T) {
	src := `cadence loop {
  variants = 0;
  sprints = many;
  compare using q;
  keep best 0;
}
`
	diags := validateSource(t, src)

	require.Len(t, diags, 3)
	assert.Equal(t, "Cadence option 'variants' must be a positive integer.", diags[0].Message)
	assert.Equal(t, Position{Line: 1, Character: 13}, diags[0].Range.Start)
	assert.Equal(t, "Cadence option 'sprints' must be a positive integer.", diags[1].Message)
	assert.Equal(t, "Cadence 'keep best' count must be a positive integer.", diags[2].Message)
	assert.Equal(t, Position{Line: 4, Character: 12}, diags[2].Range.Start)
}

func TestValidator_EmptySourceFileList(t *testing.T) {
	diags := validateSource(t, "create Brief from julietArtifactSourceFiles [];\n")

	require.Len(t, diags, 1)
	assert.Equal(t, "Artifact 'Brief' must list at least one source file.", diags[0].Message)
	assert.Equal(t, Position{Line: 0, Character: 44}, diags[0].Range.Start)
}

func TestValidator_EmptyPrompt(t *testing.T) {
	diags := validateSource(t, `create Plan from juliet "";`)

	require.Len(t, diags, 1)
	assert.Equal(t, "Artifact 'Plan' must have a non-empty prompt.", diags[0].Message)
}

func TestValidator_ValidDeclarations(t *testing.T) {
	src := `rubric q { criterion "A" points 0; }
cadence loop { variants = 1; sprints = 1; compare using q; keep best 1; }
create Brief from julietArtifactSourceFiles ["a.md"];
create Plan from juliet "P";
halt;
`
	diags := validateSource(t, src)
	assert.Empty(t, diags)
}

func TestValidator_ExtraCadenceOptionsAllowed(t *testing.T) {
	src := `cadence loop {
  engine = codex;
  variants = 1;
  sprints = 1;
  compare using q;
  keep best 1;
}
`
	diags := validateSource(t, src)
	assert.Empty(t, diags)
}
