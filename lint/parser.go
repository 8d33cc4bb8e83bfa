package lint

import "fmt"

// parser is a recursive-descent parser with panic-mode recovery. Every parse
// failure emits a diagnostic and resynchronizes; parsing always reaches the
// end of input. Declarations that carried errors are still returned with
// whatever was recovered, so later stages can check them.
type parser struct {
	tokens      []Token
	pos         int
	diags       []Diagnostic
	eofReported bool
}

// parse consumes a token stream (terminated by TokenEOF) and returns the
// declarations in source order plus the syntax diagnostics.
func parse(tokens []Token) ([]Decl, []Diagnostic) {
	p := &parser{tokens: tokens}
	var decls []Decl
	for !p.isAtEnd() {
		if decl := p.parseDecl(); decl != nil {
			decls = append(decls, decl)
		}
	}
	return decls, p.diags
}

func (p *parser) parseDecl() Decl {
	switch p.current().Type {
	case TokenJuliet:
		return p.parseRuntimeBlock()
	case TokenPolicy:
		return p.parsePolicy()
	case TokenRubric:
		return p.parseRubric()
	case TokenCadence:
		return p.parseCadence()
	case TokenCreate:
		return p.parseCreate()
	case TokenExtend:
		return p.parseExtend()
	case TokenHalt:
		return p.parseHalt()
	default:
		cur := p.current()
		p.errAtToken(cur, fmt.Sprintf("Unexpected token %s; expected a declaration.", cur.describe()))
		p.advance()
		p.synchronize()
		return nil
	}
}

// parseRuntimeBlock parses `juliet { (name = value ;)* }`.
func (p *parser) parseRuntimeBlock() Decl {
	kw := p.advance()
	block := &RuntimeBlock{Range: kw.Range}
	if !p.match(TokenLBrace) {
		p.errAfterPrevious("Expected '{' after 'juliet'.")
		p.synchronize()
		return block
	}
	block.Options = p.parseOptionBody("'juliet' block")
	p.expectCloseBrace("'juliet' block")
	return block
}

// parsePolicy parses `policy NAME = STRING ;`.
func (p *parser) parsePolicy() Decl {
	kw := p.advance()
	name, ok := p.expectIdent("Expected policy name.")
	if !ok {
		p.synchronize()
		return nil
	}
	decl := &PolicyDecl{Name: name, Range: kw.Range}
	if !p.match(TokenEquals) {
		p.errAfterPrevious("Expected '=' after policy name.")
		p.synchronize()
		return decl
	}
	body, ok := p.expectString("Expected policy text.")
	if !ok {
		p.synchronize()
		return decl
	}
	decl.Body = body
	p.expectSemicolon("policy declaration")
	return decl
}

// parseRubric parses `rubric NAME { criterion* tiebreakers? }`. A criterion
// after the tiebreakers clause, or a second tiebreakers clause, is reported
// but still collected, so later stages see everything that parsed.
func (p *parser) parseRubric() Decl {
	kw := p.advance()
	name, ok := p.expectIdent("Expected rubric name.")
	if !ok {
		p.synchronize()
		return nil
	}
	decl := &RubricDecl{Name: name, Range: kw.Range}
	if !p.match(TokenLBrace) {
		p.errAfterPrevious("Expected '{' after rubric name.")
		p.synchronize()
		return decl
	}
	sawTiebreakers := false
body:
	for {
		cur := p.current()
		switch {
		case cur.Type == TokenCriterion:
			if sawTiebreakers {
				p.errAtToken(cur, "Criteria must be declared before 'tiebreakers'.")
			}
			if c, ok := p.parseCriterion(); ok {
				decl.Criteria = append(decl.Criteria, c)
			}
		case cur.Type == TokenTiebreakers:
			if sawTiebreakers {
				p.errAtToken(cur, fmt.Sprintf("'tiebreakers' already declared in rubric '%s'.", decl.Name.Name))
			}
			sawTiebreakers = true
			decl.Tiebreakers = append(decl.Tiebreakers, p.parseTiebreakers()...)
		case cur.Type == TokenRBrace || cur.Type == TokenEOF || p.atDeclKeyword():
			break body
		default:
			p.errAtToken(cur, fmt.Sprintf("Unexpected token %s in rubric body.", cur.describe()))
			p.advance()
			p.synchronize(TokenCriterion, TokenTiebreakers)
		}
	}
	p.expectCloseBrace("rubric body")
	return decl
}

// parseCriterion parses `criterion STRING points INT (means STRING)? ;`.
// A criterion whose label parsed is kept even when a later part failed, so
// tiebreaker matching still sees it.
func (p *parser) parseCriterion() (Criterion, bool) {
	p.advance()
	label, ok := p.expectString("Expected criterion label.")
	if !ok {
		p.synchronize(TokenCriterion, TokenTiebreakers)
		return Criterion{}, false
	}
	c := Criterion{Label: label}
	if !p.match(TokenPoints) {
		p.errAfterPrevious("Expected 'points' after criterion label.")
		p.synchronize(TokenCriterion, TokenTiebreakers)
		return c, true
	}
	points, ok := p.expectInt("Expected integer after 'points'.")
	if !ok {
		p.synchronize(TokenCriterion, TokenTiebreakers)
		return c, true
	}
	c.Points = points
	if p.match(TokenMeans) {
		means, ok := p.expectString("Expected string after 'means'.")
		if !ok {
			p.synchronize(TokenCriterion, TokenTiebreakers)
			return c, true
		}
		c.Means = &means
	}
	p.expectSemicolon("criterion", TokenCriterion, TokenTiebreakers)
	return c, true
}

// parseTiebreakers parses `tiebreakers [ STRING (, STRING)* ] ;`. An empty
// list is a single diagnostic, with the brackets consumed so recovery
// resumes after the clause.
func (p *parser) parseTiebreakers() []StringLit {
	p.advance()
	if !p.match(TokenLBracket) {
		p.errAfterPrevious("Expected '[' after 'tiebreakers'.")
		p.synchronize(TokenCriterion, TokenTiebreakers)
		return nil
	}
	if p.check(TokenRBracket) {
		p.errAfterPrevious("Expected tiebreaker label.")
		p.advance()
		p.expectSemicolon("tiebreakers", TokenCriterion, TokenTiebreakers)
		return nil
	}
	var labels []StringLit
	first, ok := p.expectString("Expected tiebreaker label.")
	if !ok {
		p.synchronize(TokenCriterion, TokenTiebreakers)
		return nil
	}
	labels = append(labels, first)
	for p.match(TokenComma) {
		s, ok := p.expectString("Expected tiebreaker label.")
		if !ok {
			p.synchronize(TokenCriterion, TokenTiebreakers)
			return labels
		}
		labels = append(labels, s)
	}
	if !p.match(TokenRBracket) {
		p.errAfterPrevious("Expected ']' to close tiebreakers list.")
		p.synchronize(TokenCriterion, TokenTiebreakers)
		return labels
	}
	p.expectSemicolon("tiebreakers", TokenCriterion, TokenTiebreakers)
	return labels
}

// parseCadence parses `cadence NAME { items }` where items are
// `name = value ;` options, one `compare using NAME ;`, and one
// `keep best INT ;`, in any order.
func (p *parser) parseCadence() Decl {
	kw := p.advance()
	name, ok := p.expectIdent("Expected cadence name.")
	if !ok {
		p.synchronize()
		return nil
	}
	decl := &CadenceDecl{Name: name, Range: kw.Range}
	if !p.match(TokenLBrace) {
		p.errAfterPrevious("Expected '{' after cadence name.")
		p.synchronize()
		return decl
	}
body:
	for {
		cur := p.current()
		switch {
		case cur.Type == TokenCompare:
			p.parseCompare(decl)
		case cur.Type == TokenKeep:
			p.parseKeep(decl)
		case cur.Type == TokenRBrace || cur.Type == TokenEOF:
			break body
		case p.atDeclKeyword() && p.peek().Type != TokenEquals:
			break body
		case nameLike(cur):
			if opt, ok := p.parseOption(); ok {
				decl.Options = append(decl.Options, opt)
			}
		default:
			p.errAtToken(cur, fmt.Sprintf("Unexpected token %s in cadence body.", cur.describe()))
			p.advance()
			p.synchronize()
		}
	}
	p.expectCloseBrace("cadence body")
	return decl
}

func (p *parser) parseCompare(decl *CadenceDecl) {
	p.advance()
	if !p.match(TokenUsing) {
		p.errAfterPrevious("Expected 'using' after 'compare'.")
		p.synchronize()
		return
	}
	name, ok := p.expectIdent("Expected rubric name after 'compare using'.")
	if !ok {
		p.synchronize()
		return
	}
	decl.Compare = &name
	p.expectSemicolon("compare clause")
}

func (p *parser) parseKeep(decl *CadenceDecl) {
	p.advance()
	if !p.match(TokenBest) {
		p.errAfterPrevious("Expected 'best' after 'keep'.")
		p.synchronize()
		return
	}
	n, ok := p.expectInt("Expected integer after 'keep best'.")
	if !ok {
		p.synchronize()
		return
	}
	decl.Keep = &n
	p.expectSemicolon("keep clause")
}

// parseCreate parses
// `create NAME from ORIGIN (using [ ... ])? (with { ... })? ;`
// where ORIGIN is `julietArtifactSourceFiles [ STRING, ... ]` or
// `juliet STRING`.
func (p *parser) parseCreate() Decl {
	kw := p.advance()
	name, ok := p.expectIdent("Expected artifact name.")
	if !ok {
		p.synchronize()
		return nil
	}
	decl := &CreateDecl{Name: name, Range: kw.Range}
	if !p.match(TokenFrom) {
		p.errAfterPrevious("Expected 'from' after artifact name.")
		p.synchronize()
		return decl
	}
	switch {
	case p.check(TokenSourceFiles):
		p.advance()
		if !p.parseSourceFileList(decl) {
			return decl
		}
	case p.check(TokenJuliet):
		p.advance()
		prompt, ok := p.expectString("Expected prompt string after 'juliet'.")
		if !ok {
			p.synchronize()
			return decl
		}
		decl.Origin = OriginPrompt
		decl.Prompt = prompt
	default:
		p.errAfterPrevious("Expected 'julietArtifactSourceFiles' or 'juliet' after 'from'.")
		p.synchronize()
		return decl
	}
	if p.match(TokenUsing) {
		if !p.parseUsingList(decl) {
			return decl
		}
	}
	if p.match(TokenWith) {
		if !p.parseWithBlock(decl) {
			return decl
		}
	}
	p.expectSemicolon("create declaration")
	return decl
}

func (p *parser) parseSourceFileList(decl *CreateDecl) bool {
	if !p.check(TokenLBracket) {
		p.errAfterPrevious("Expected '[' after 'julietArtifactSourceFiles'.")
		p.synchronize()
		return false
	}
	decl.Origin = OriginSourceFiles
	open := p.advance()
	decl.ListRange = open.Range
	if !p.check(TokenRBracket) {
		s, ok := p.expectString("Expected file path string.")
		if !ok {
			p.synchronize()
			return false
		}
		decl.SourceFiles = append(decl.SourceFiles, s)
		for p.match(TokenComma) {
			s, ok := p.expectString("Expected file path string.")
			if !ok {
				p.synchronize()
				return false
			}
			decl.SourceFiles = append(decl.SourceFiles, s)
		}
	}
	if !p.check(TokenRBracket) {
		p.errAfterPrevious("Expected ']' to close source file list.")
		p.synchronize()
		return false
	}
	closing := p.advance()
	decl.ListRange = Range{Start: open.Range.Start, End: closing.Range.End}
	return true
}

func (p *parser) parseUsingList(decl *CreateDecl) bool {
	if !p.match(TokenLBracket) {
		p.errAfterPrevious("Expected '[' after 'using'.")
		p.synchronize()
		return false
	}
	if !p.check(TokenRBracket) {
		ref, ok := p.expectIdent("Expected artifact name in 'using' list.")
		if !ok {
			p.synchronize()
			return false
		}
		decl.Using = append(decl.Using, ref)
		for p.match(TokenComma) {
			ref, ok := p.expectIdent("Expected artifact name in 'using' list.")
			if !ok {
				p.synchronize()
				return false
			}
			decl.Using = append(decl.Using, ref)
		}
	}
	if !p.match(TokenRBracket) {
		p.errAfterPrevious("Expected ']' to close 'using' list.")
		p.synchronize()
		return false
	}
	return true
}

func (p *parser) parseWithBlock(decl *CreateDecl) bool {
	if !p.match(TokenLBrace) {
		p.errAfterPrevious("Expected '{' after 'with'.")
		p.synchronize()
		return false
	}
body:
	for {
		cur := p.current()
		switch {
		case cur.Type == TokenRBrace || cur.Type == TokenEOF:
			break body
		case p.atDeclKeyword() && p.peek().Type != TokenEquals:
			break body
		case nameLike(cur):
			prop := p.advance()
			if !p.match(TokenEquals) {
				p.errAfterPrevious("Expected '=' after 'with' property name.")
				p.synchronize()
				continue
			}
			ref, ok := p.expectIdent("Expected reference name after '='.")
			if !ok {
				p.synchronize()
				continue
			}
			decl.With = append(decl.With, WithEntry{
				Property: Ident{Name: prop.Lexeme, Range: prop.Range},
				Value:    ref,
			})
			if !p.match(TokenSemicolon) {
				p.errAfterPrevious("Expected ';' after 'with' property.")
				p.synchronize()
			}
		default:
			p.errAtToken(cur, fmt.Sprintf("Unexpected token %s in 'with' block.", cur.describe()))
			p.advance()
			p.synchronize()
		}
	}
	p.expectCloseBrace("'with' block")
	return true
}

// parseExtend parses `extend NAME . PROPERTY with STRING ;`.
func (p *parser) parseExtend() Decl {
	kw := p.advance()
	target, ok := p.expectIdent("Expected artifact name after 'extend'.")
	if !ok {
		p.synchronize()
		return nil
	}
	decl := &ExtendDecl{Target: target, Range: kw.Range}
	if !p.match(TokenDot) {
		p.errAfterPrevious("Expected '.' after artifact name.")
		p.synchronize()
		return decl
	}
	prop, ok := p.expectName("Expected property name after '.'.")
	if !ok {
		p.synchronize()
		return decl
	}
	decl.Property = prop
	if !p.match(TokenWith) {
		p.errAfterPrevious("Expected 'with' after property name.")
		p.synchronize()
		return decl
	}
	text, ok := p.expectString("Expected guidance text after 'with'.")
	if !ok {
		p.synchronize()
		return decl
	}
	decl.Text = text
	p.expectSemicolon("extend declaration")
	return decl
}

// parseHalt parses `halt STRING? ;`.
func (p *parser) parseHalt() Decl {
	kw := p.advance()
	decl := &HaltStmt{Range: kw.Range}
	if p.check(TokenString) || p.check(TokenBlockString) {
		tok := p.advance()
		decl.Message = &StringLit{Text: tok.Text, Range: tok.Range}
	}
	p.expectSemicolon("halt statement")
	return decl
}

// parseOptionBody parses `(name = value ;)*` until a closing brace, end of
// input, or a stray declaration keyword that signals a missing '}'.
func (p *parser) parseOptionBody(blockName string) []Option {
	var opts []Option
	for {
		cur := p.current()
		switch {
		case cur.Type == TokenRBrace || cur.Type == TokenEOF:
			return opts
		case p.atDeclKeyword() && p.peek().Type != TokenEquals:
			return opts
		case nameLike(cur):
			if opt, ok := p.parseOption(); ok {
				opts = append(opts, opt)
			}
		default:
			p.errAtToken(cur, fmt.Sprintf("Unexpected token %s in %s.", cur.describe(), blockName))
			p.advance()
			p.synchronize()
		}
	}
}

// parseOption parses one `name = value ;` entry. Option names may be plain
// identifiers or keywords such as variants and sprints.
func (p *parser) parseOption() (Option, bool) {
	name := p.advance()
	opt := Option{Name: name.Lexeme, Range: name.Range}
	if !p.match(TokenEquals) {
		p.errAfterPrevious("Expected '=' after option name.")
		p.synchronize()
		return opt, false
	}
	val, ok := p.parseValue()
	if !ok {
		p.errAfterPrevious("Expected option value.")
		p.synchronize()
		return opt, false
	}
	opt.Value = val
	if !p.match(TokenSemicolon) {
		p.errAfterPrevious("Expected ';' after option.")
		p.synchronize()
	}
	return opt, true
}

// parseValue parses a bare name, integer, or string literal.
func (p *parser) parseValue() (Value, bool) {
	tok := p.current()
	switch {
	case tok.Type == TokenInt:
		p.advance()
		return Value{Kind: ValueInt, Int: tok.Value, Text: tok.Text, Range: tok.Range}, true
	case tok.Type == TokenString || tok.Type == TokenBlockString:
		p.advance()
		return Value{Kind: ValueString, Text: tok.Text, Range: tok.Range}, true
	case nameLike(tok):
		p.advance()
		return Value{Kind: ValueIdent, Text: tok.Lexeme, Range: tok.Range}, true
	}
	return Value{}, false
}

// synchronize advances to a safe resumption point after a parse error: the
// next ';' at the current nesting depth (consumed), the next declaration
// keyword or extra stop token, or a closer that ends the enclosing block
// (left for the caller). Reaching end of input reports
// "Unexpected end of input." at most once per parse.
func (p *parser) synchronize(stops ...TokenType) {
	depth := 0
	for {
		cur := p.current()
		if cur.Type == TokenEOF {
			p.reportEOF()
			return
		}
		if depth == 0 {
			switch cur.Type {
			case TokenSemicolon:
				p.advance()
				return
			case TokenRBrace, TokenRBracket, TokenRParen:
				return
			case TokenJuliet, TokenPolicy, TokenRubric, TokenCadence, TokenCreate, TokenExtend, TokenHalt:
				return
			}
			for _, s := range stops {
				if cur.Type == s {
					return
				}
			}
		}
		switch cur.Type {
		case TokenLBrace, TokenLBracket, TokenLParen:
			depth++
		case TokenRBrace, TokenRBracket, TokenRParen:
			depth--
		}
		p.advance()
	}
}

func (p *parser) reportEOF() {
	if p.eofReported {
		return
	}
	p.eofReported = true
	p.diags = append(p.diags, errorDiag(pointRange(p.current().Range.Start), "Unexpected end of input."))
}

func (p *parser) expectIdent(msg string) (Ident, bool) {
	if p.check(TokenIdent) {
		tok := p.advance()
		return Ident{Name: tok.Lexeme, Range: tok.Range}, true
	}
	p.errAfterPrevious(msg)
	return Ident{}, false
}

// expectName is expectIdent loosened to accept keywords, for positions such
// as extend properties where reserved words like rubric are legal names.
func (p *parser) expectName(msg string) (Ident, bool) {
	cur := p.current()
	if nameLike(cur) {
		p.advance()
		return Ident{Name: cur.Lexeme, Range: cur.Range}, true
	}
	p.errAfterPrevious(msg)
	return Ident{}, false
}

func (p *parser) expectString(msg string) (StringLit, bool) {
	if p.check(TokenString) || p.check(TokenBlockString) {
		tok := p.advance()
		return StringLit{Text: tok.Text, Range: tok.Range}, true
	}
	p.errAfterPrevious(msg)
	return StringLit{}, false
}

func (p *parser) expectInt(msg string) (IntLit, bool) {
	if p.check(TokenInt) {
		tok := p.advance()
		return IntLit{Value: tok.Value, Range: tok.Range}, true
	}
	p.errAfterPrevious(msg)
	return IntLit{}, false
}

func (p *parser) expectSemicolon(after string, stops ...TokenType) {
	if !p.match(TokenSemicolon) {
		p.errAfterPrevious(fmt.Sprintf("Expected ';' after %s.", after))
		p.synchronize(stops...)
	}
}

func (p *parser) expectCloseBrace(blockName string) {
	if !p.match(TokenRBrace) {
		p.errAfterPrevious(fmt.Sprintf("Expected '}' to close %s.", blockName))
		p.synchronize()
	}
}

func (p *parser) errAfterPrevious(msg string) {
	prev := p.previous()
	pos := prev.Range.Start
	if prev.Range.End != nil {
		pos = *prev.Range.End
	}
	p.diags = append(p.diags, errorDiag(pointRange(pos), msg))
}

func (p *parser) errAtToken(tok Token, msg string) {
	p.diags = append(p.diags, errorDiag(tok.Range, msg))
}

func (p *parser) atDeclKeyword() bool {
	switch p.current().Type {
	case TokenJuliet, TokenPolicy, TokenRubric, TokenCadence, TokenCreate, TokenExtend, TokenHalt:
		return true
	}
	return false
}

func nameLike(tok Token) bool {
	return tok.Type == TokenIdent || tok.isKeyword()
}

func (p *parser) current() Token {
	return p.tokens[p.pos]
}

func (p *parser) previous() Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) check(tt TokenType) bool {
	return p.current().Type == tt
}

func (p *parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) isAtEnd() bool {
	return p.current().Type == TokenEOF
}
