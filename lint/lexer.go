package lint

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// lexer performs a single pass over source text, producing tokens and
// diagnostics. Lexical errors never abort the scan: the offending input is
// skipped or folded into a best-effort token and scanning continues.
type lexer struct {
	src       string
	cur       int // byte offset of the next rune
	line      int // zero-based line of the next rune
	col       int // zero-based rune column of the next rune
	start     Position
	startByte int
	tokens    []Token
	diags     []Diagnostic
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// scan tokenizes the entire source. The returned token slice always ends
// with a TokenEOF token.
func (l *lexer) scan() ([]Token, []Diagnostic) {
	for {
		l.skipTrivia()
		l.markStart()
		if l.atEnd() {
			l.tokens = append(l.tokens, Token{Type: TokenEOF, Range: pointRange(l.pos())})
			return l.tokens, l.diags
		}
		l.scanToken()
	}
}

func (l *lexer) scanToken() {
	r := l.advance()
	switch r {
	case '{':
		l.emit(TokenLBrace)
	case '}':
		l.emit(TokenRBrace)
	case '[':
		l.emit(TokenLBracket)
	case ']':
		l.emit(TokenRBracket)
	case '(':
		l.emit(TokenLParen)
	case ')':
		l.emit(TokenRParen)
	case '=':
		l.emit(TokenEquals)
	case ';':
		l.emit(TokenSemicolon)
	case ',':
		l.emit(TokenComma)
	case '.':
		l.emit(TokenDot)
	case '"':
		if strings.HasPrefix(l.src[l.cur:], `""`) {
			l.advance()
			l.advance()
			l.scanBlockString()
		} else {
			l.scanString()
		}
	default:
		switch {
		case isDigit(r):
			l.scanNumber()
		case isAlpha(r):
			l.scanIdentifier()
		case r == utf8.RuneError && !utf8.ValidString(l.src[l.startByte:l.cur]):
			l.errorAtStart("Invalid UTF-8 byte.")
		default:
			l.errorAtStart(fmt.Sprintf("Unexpected character '%c'.", r))
		}
	}
}

// scanString consumes a plain quoted string after the opening quote.
// Recognized escapes are \" \\ \n \t \r; any other escaped character is kept
// literally. A newline or end of input before the closing quote yields an
// unterminated-string diagnostic and a best-effort token covering the rest
// of the line.
func (l *lexer) scanString() {
	var b strings.Builder
	for !l.atEnd() {
		if l.peek() == '\n' {
			break
		}
		r := l.advance()
		if r == '"' {
			l.emitString(TokenString, b.String())
			return
		}
		if r == '\\' && !l.atEnd() && l.peek() != '\n' {
			e := l.advance()
			switch e {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			default: // includes '"' and '\\'
				b.WriteRune(e)
			}
			continue
		}
		b.WriteRune(r)
	}
	l.errorAtStart("Unterminated string literal.")
	l.emitString(TokenString, b.String())
}

// scanBlockString consumes a triple-quoted string after the opening quotes.
// The body is verbatim: no escape processing, newlines included. A missing
// closing triple-quote yields a diagnostic and a token covering the rest of
// the input.
func (l *lexer) scanBlockString() {
	bodyStart := l.cur
	for !l.atEnd() {
		if strings.HasPrefix(l.src[l.cur:], `"""`) {
			body := l.src[bodyStart:l.cur]
			l.advance()
			l.advance()
			l.advance()
			l.emitString(TokenBlockString, body)
			return
		}
		l.advance()
	}
	l.errorAtStart("Unterminated block string literal.")
	l.emitString(TokenBlockString, l.src[bodyStart:l.cur])
}

func (l *lexer) scanNumber() {
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	lexeme := l.src[l.startByte:l.cur]
	v, err := strconv.Atoi(lexeme)
	if err != nil {
		l.errorAtStart("Integer literal is too large.")
		v = 0
	}
	l.emitInt(v)
}

func (l *lexer) scanIdentifier() {
	for !l.atEnd() && isAlphaNumeric(l.peek()) {
		l.advance()
	}
	lexeme := l.src[l.startByte:l.cur]
	if tt, ok := keywords[lexeme]; ok {
		l.emit(tt)
		return
	}
	l.emit(TokenIdent)
}

// skipTrivia discards whitespace and # line comments.
func (l *lexer) skipTrivia() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '#':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) markStart() {
	l.start = l.pos()
	l.startByte = l.cur
}

func (l *lexer) pos() Position {
	return Position{Line: l.line, Character: l.col}
}

func (l *lexer) atEnd() bool {
	return l.cur >= len(l.src)
}

// advance consumes one rune and updates the line/column bookkeeping.
func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += size
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r
}

func (l *lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.src[l.cur:])
	return r
}

func (l *lexer) emit(tt TokenType) {
	lexeme := l.src[l.startByte:l.cur]
	l.tokens = append(l.tokens, Token{
		Type:   tt,
		Lexeme: lexeme,
		Text:   lexeme,
		Range:  newRange(l.start, l.pos()),
	})
}

func (l *lexer) emitString(tt TokenType, decoded string) {
	l.tokens = append(l.tokens, Token{
		Type:   tt,
		Lexeme: l.src[l.startByte:l.cur],
		Text:   decoded,
		Range:  newRange(l.start, l.pos()),
	})
}

func (l *lexer) emitInt(v int) {
	lexeme := l.src[l.startByte:l.cur]
	l.tokens = append(l.tokens, Token{
		Type:   TokenInt,
		Lexeme: lexeme,
		Text:   lexeme,
		Value:  v,
		Range:  newRange(l.start, l.pos()),
	})
}

func (l *lexer) errorAtStart(msg string) {
	l.diags = append(l.diags, errorDiag(pointRange(l.start), msg))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
