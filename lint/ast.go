package lint

// Ident is a name occurrence with its source range.
type Ident struct {
	Name  string
	Range Range
}

// StringLit is a decoded string literal with its source range.
type StringLit struct {
	Text  string
	Range Range
}

// IntLit is an integer literal with its source range.
type IntLit struct {
	Value int
	Range Range
}

// Value is the right-hand side of an option assignment: a bare name, an
// integer, or a string.
type Value struct {
	Kind  ValueKind
	Text  string // name or decoded string
	Int   int
	Range Range
}

type ValueKind int

const (
	ValueIdent ValueKind = iota
	ValueInt
	ValueString
)

// Option is one `name = value;` entry inside a block body.
type Option struct {
	Name  string
	Value Value
	Range Range // of the name
}

// Decl is a top-level declaration. Declarations appear in the slice returned
// by the parser in source order, including declarations that carried syntax
// errors, so later stages can still check what was recovered.
type Decl interface {
	declNode()
}

// RuntimeBlock is the `juliet { ... }` engine defaults block.
type RuntimeBlock struct {
	Options []Option
	Range   Range // of the juliet keyword
}

// PolicyDecl is `policy NAME = STRING;`.
type PolicyDecl struct {
	Name  Ident
	Body  StringLit
	Range Range
}

// Criterion is one scored rubric entry.
type Criterion struct {
	Label  StringLit
	Points IntLit
	Means  *StringLit // nil when the means clause is absent
}

// RubricDecl is `rubric NAME { criterion... tiebreakers...? }`.
type RubricDecl struct {
	Name        Ident
	Criteria    []Criterion
	Tiebreakers []StringLit
	Range       Range
}

// CadenceDecl is `cadence NAME { options... compare using R; keep best N; }`.
// Compare and Keep are nil when the clause never parsed.
type CadenceDecl struct {
	Name    Ident
	Options []Option
	Compare *Ident
	Keep    *IntLit
	Range   Range
}

// OriginKind says where a created artifact's content comes from.
type OriginKind int

const (
	// OriginNone marks a create declaration whose origin clause failed to
	// parse; origin-dependent checks are skipped for it.
	OriginNone OriginKind = iota
	OriginSourceFiles
	OriginPrompt
)

// WithEntry is one `property = name;` entry in a create's with block.
type WithEntry struct {
	Property Ident
	Value    Ident
}

// CreateDecl is `create NAME from ORIGIN using [...]? with {...}? ;`.
type CreateDecl struct {
	Name        Ident
	Origin      OriginKind
	SourceFiles []StringLit
	ListRange   Range // of the source file bracket list
	Prompt      StringLit
	Using       []Ident
	With        []WithEntry
	Range       Range
}

// ExtendDecl is `extend NAME.PROPERTY with STRING;`.
type ExtendDecl struct {
	Target   Ident
	Property Ident
	Text     StringLit
	Range    Range
}

// HaltStmt is `halt STRING? ;`.
type HaltStmt struct {
	Message *StringLit
	Range   Range
}

func (*RuntimeBlock) declNode() {}
func (*PolicyDecl) declNode()   {}
func (*RubricDecl) declNode()   {}
func (*CadenceDecl) declNode()  {}
func (*CreateDecl) declNode()   {}
func (*ExtendDecl) declNode()   {}
func (*HaltStmt) declNode()     {}
