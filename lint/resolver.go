package lint

import "fmt"

// resolver walks declarations in source order and enforces
// declare-before-use across four independent namespaces: policies, rubrics,
// cadences, and artifacts. References are checked before the referencing
// declaration registers its own name, so forward references and
// self-references are errors. A duplicate name is reported at the second
// declaration; the first keeps the name.
type resolver struct {
	policies  map[string]Position
	rubrics   map[string]Position
	cadences  map[string]Position
	artifacts map[string]Position
	runtime   bool
	diags     []Diagnostic
}

// withProperties maps each supported create/with property to the namespace
// its value is resolved in.
var withProperties = map[string]string{
	"preflight":     "policy",
	"failureTriage": "policy",
	"cadence":       "cadence",
	"rubric":        "rubric",
}

func resolve(decls []Decl) []Diagnostic {
	r := &resolver{
		policies:  make(map[string]Position),
		rubrics:   make(map[string]Position),
		cadences:  make(map[string]Position),
		artifacts: make(map[string]Position),
	}
	for _, decl := range decls {
		switch d := decl.(type) {
		case *RuntimeBlock:
			r.resolveRuntime(d)
		case *PolicyDecl:
			r.declare(r.policies, "Policy", d.Name)
		case *RubricDecl:
			r.resolveRubric(d)
		case *CadenceDecl:
			r.resolveCadence(d)
		case *CreateDecl:
			r.resolveCreate(d)
		case *ExtendDecl:
			r.resolveExtend(d)
		}
	}
	return r.diags
}

func (r *resolver) resolveRuntime(d *RuntimeBlock) {
	if r.runtime {
		r.errAt(d.Range, "'juliet' block already declared.")
		return
	}
	r.runtime = true
}

func (r *resolver) resolveRubric(d *RubricDecl) {
	labels := make(map[string]bool, len(d.Criteria))
	for _, c := range d.Criteria {
		labels[c.Label.Text] = true
	}
	for _, tb := range d.Tiebreakers {
		if !labels[tb.Text] {
			r.errAt(tb.Range, fmt.Sprintf("Tiebreaker '%s' does not match any criterion in rubric '%s'.", tb.Text, d.Name.Name))
		}
	}
	r.declare(r.rubrics, "Rubric", d.Name)
}

func (r *resolver) resolveCadence(d *CadenceDecl) {
	if d.Compare != nil {
		r.lookup(r.rubrics, "rubric", *d.Compare)
	}
	r.declare(r.cadences, "Cadence", d.Name)
}

func (r *resolver) resolveCreate(d *CreateDecl) {
	for _, ref := range d.Using {
		r.lookup(r.artifacts, "artifact", ref)
	}
	for _, entry := range d.With {
		kind, ok := withProperties[entry.Property.Name]
		if !ok {
			r.errAt(entry.Property.Range, fmt.Sprintf("Unknown 'with' property '%s'; supported properties: preflight, failureTriage, cadence, rubric.", entry.Property.Name))
			continue
		}
		switch kind {
		case "policy":
			r.lookup(r.policies, kind, entry.Value)
		case "cadence":
			r.lookup(r.cadences, kind, entry.Value)
		case "rubric":
			r.lookup(r.rubrics, kind, entry.Value)
		}
	}
	r.declare(r.artifacts, "Artifact", d.Name)
}

func (r *resolver) resolveExtend(d *ExtendDecl) {
	r.lookup(r.artifacts, "artifact", d.Target)
	// Property is zero-valued when its parse failed; the parser already
	// reported that.
	if d.Property.Name != "" && d.Property.Name != "rubric" {
		r.errAt(d.Property.Range, fmt.Sprintf("Unsupported extend property '%s'; supported properties: rubric.", d.Property.Name))
	}
}

func (r *resolver) declare(ns map[string]Position, kind string, id Ident) {
	if _, exists := ns[id.Name]; exists {
		r.errAt(id.Range, fmt.Sprintf("%s '%s' already declared.", kind, id.Name))
		return
	}
	ns[id.Name] = id.Range.Start
}

func (r *resolver) lookup(ns map[string]Position, kind string, id Ident) {
	if _, exists := ns[id.Name]; !exists {
		r.errAt(id.Range, fmt.Sprintf("Reference to undeclared %s '%s'.", kind, id.Name))
	}
}

func (r *resolver) errAt(rng Range, msg string) {
	r.diags = append(r.diags, errorDiag(rng, msg))
}
