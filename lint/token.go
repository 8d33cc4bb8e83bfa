package lint

// TokenType identifies the kind of a lexed token.
type TokenType int

const (
	TokenEOF TokenType = iota

	// Literals and names.
	TokenIdent
	TokenInt
	TokenString      // "..." with escape processing
	TokenBlockString // """...""" taken verbatim

	// Keywords.
	TokenJuliet
	TokenPolicy
	TokenRubric
	TokenCriterion
	TokenPoints
	TokenMeans
	TokenTiebreakers
	TokenCadence
	TokenVariants
	TokenSprints
	TokenCompare
	TokenUsing
	TokenKeep
	TokenBest
	TokenCreate
	TokenFrom
	TokenSourceFiles // julietArtifactSourceFiles
	TokenWith
	TokenExtend
	TokenHalt

	// Punctuation.
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenLParen    // (
	TokenRParen    // )
	TokenEquals    // =
	TokenSemicolon // ;
	TokenComma     // ,
	TokenDot       // .
)

var tokenNames = map[TokenType]string{
	TokenEOF:         "EOF",
	TokenIdent:       "IDENT",
	TokenInt:         "INT",
	TokenString:      "STRING",
	TokenBlockString: "BLOCK_STRING",
	TokenJuliet:      "juliet",
	TokenPolicy:      "policy",
	TokenRubric:      "rubric",
	TokenCriterion:   "criterion",
	TokenPoints:      "points",
	TokenMeans:       "means",
	TokenTiebreakers: "tiebreakers",
	TokenCadence:     "cadence",
	TokenVariants:    "variants",
	TokenSprints:     "sprints",
	TokenCompare:     "compare",
	TokenUsing:       "using",
	TokenKeep:        "keep",
	TokenBest:        "best",
	TokenCreate:      "create",
	TokenFrom:        "from",
	TokenSourceFiles: "julietArtifactSourceFiles",
	TokenWith:        "with",
	TokenExtend:      "extend",
	TokenHalt:        "halt",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenEquals:      "=",
	TokenSemicolon:   ";",
	TokenComma:       ",",
	TokenDot:         ".",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenType{
	"juliet":                    TokenJuliet,
	"policy":                    TokenPolicy,
	"rubric":                    TokenRubric,
	"criterion":                 TokenCriterion,
	"points":                    TokenPoints,
	"means":                     TokenMeans,
	"tiebreakers":               TokenTiebreakers,
	"cadence":                   TokenCadence,
	"variants":                  TokenVariants,
	"sprints":                   TokenSprints,
	"compare":                   TokenCompare,
	"using":                     TokenUsing,
	"keep":                      TokenKeep,
	"best":                      TokenBest,
	"create":                    TokenCreate,
	"from":                      TokenFrom,
	"julietArtifactSourceFiles": TokenSourceFiles,
	"with":                      TokenWith,
	"extend":                    TokenExtend,
	"halt":                      TokenHalt,
}

// Token is a single lexed unit of JulietScript source.
type Token struct {
	Type   TokenType
	Lexeme string // verbatim source text
	Text   string // decoded value for string literals, the word itself otherwise
	Value  int    // decoded value for integer literals
	Range  Range
}

// isKeyword reports whether the token is one of the reserved words.
func (t Token) isKeyword() bool {
	return t.Type >= TokenJuliet && t.Type <= TokenHalt
}

// describe renders the token for use inside a diagnostic message.
func (t Token) describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenString, TokenBlockString:
		return "string literal"
	default:
		return "'" + t.Lexeme + "'"
	}
}
