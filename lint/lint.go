package lint

// Lint runs the full pipeline over one source text: lex, parse, resolve,
// validate. It returns every diagnostic found, ordered by start position;
// diagnostics at the same position keep their stage order. Lint is pure and
// never fails: any input, including garbage, yields a (possibly empty) list.
func Lint(source string) []Diagnostic {
	tokens, lexDiags := newLexer(source).scan()
	decls, parseDiags := parse(tokens)
	resolveDiags := resolve(decls)
	validateDiags := validate(decls)

	diags := make([]Diagnostic, 0, len(lexDiags)+len(parseDiags)+len(resolveDiags)+len(validateDiags))
	diags = append(diags, lexDiags...)
	diags = append(diags, parseDiags...)
	diags = append(diags, resolveDiags...)
	diags = append(diags, validateDiags...)
	sortDiagnostics(diags)
	return diags
}
