package lint

import "fmt"

// validator applies structural rules to declarations that parsed. All checks
// run; a failed check appends a diagnostic and never aborts the pass.
type validator struct {
	diags []Diagnostic
}

func validate(decls []Decl) []Diagnostic {
	v := &validator{}
	for _, decl := range decls {
		switch d := decl.(type) {
		case *RubricDecl:
			v.checkRubric(d)
		case *CadenceDecl:
			v.checkCadence(d)
		case *CreateDecl:
			v.checkCreate(d)
		}
	}
	return v.diags
}

func (v *validator) checkRubric(d *RubricDecl) {
	if len(d.Criteria) == 0 {
		v.errAt(d.Name.Range, fmt.Sprintf("Rubric '%s' must declare at least one criterion.", d.Name.Name))
	}
}

func (v *validator) checkCadence(d *CadenceDecl) {
	v.checkCadenceCount(d, "variants")
	v.checkCadenceCount(d, "sprints")
	if d.Compare == nil {
		v.errAt(d.Name.Range, fmt.Sprintf("Cadence '%s' must declare 'compare using'.", d.Name.Name))
	}
	if d.Keep == nil {
		v.errAt(d.Name.Range, fmt.Sprintf("Cadence '%s' must declare 'keep best'.", d.Name.Name))
	} else if d.Keep.Value < 1 {
		v.errAt(d.Keep.Range, "Cadence 'keep best' count must be a positive integer.")
	}
}

func (v *validator) checkCadenceCount(d *CadenceDecl, option string) {
	opt := findOption(d.Options, option)
	if opt == nil {
		v.errAt(d.Name.Range, fmt.Sprintf("Cadence '%s' must set '%s'.", d.Name.Name, option))
		return
	}
	if opt.Value.Kind != ValueInt || opt.Value.Int < 1 {
		v.errAt(opt.Value.Range, fmt.Sprintf("Cadence option '%s' must be a positive integer.", option))
	}
}

func (v *validator) checkCreate(d *CreateDecl) {
	switch d.Origin {
	case OriginSourceFiles:
		if len(d.SourceFiles) == 0 {
			v.errAt(d.ListRange, fmt.Sprintf("Artifact '%s' must list at least one source file.", d.Name.Name))
		}
	case OriginPrompt:
		if d.Prompt.Text == "" {
			v.errAt(d.Prompt.Range, fmt.Sprintf("Artifact '%s' must have a non-empty prompt.", d.Name.Name))
		}
	}
}

func findOption(opts []Option, name string) *Option {
	for i := range opts {
		if opts[i].Name == name {
			return &opts[i]
		}
	}
	return nil
}

func (v *validator) errAt(rng Range, msg string) {
	v.diags = append(v.diags, errorDiag(rng, msg))
}
