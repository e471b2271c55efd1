package lexer

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenIdent // main, foo, x
	TokenInt   // 42

	// Keywords
	TokenInt_   // int
	TokenVoid   // void
	TokenReturn // return

	// Operators
	TokenNot   // !
	TokenMinus // -
	TokenPlus  // +
	TokenSlash // /
	TokenStar  // *
	TokenTilde // ~

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenSemicolon // ;
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "end of input",
	TokenIllegal:   "invalid character",
	TokenIdent:     "identifier",
	TokenInt:       "integer literal",
	TokenInt_:      "'int'",
	TokenVoid:      "'void'",
	TokenReturn:    "'return'",
	TokenNot:       "'!'",
	TokenMinus:     "'-'",
	TokenPlus:      "'+'",
	TokenSlash:     "'/'",
	TokenStar:      "'*'",
	TokenTilde:     "'~'",
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenLBrace:    "'{'",
	TokenRBrace:    "'}'",
	TokenSemicolon: "';'",
}

// String returns the name used for the token type in diagnostics
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token. Line and Column are 1-based and locate
// the first character of Literal.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// keywords maps keyword strings to token types
var keywords = map[string]TokenType{
	"int":    TokenInt_,
	"void":   TokenVoid,
	"return": TokenReturn,
}

// LookupIdent returns the token type for an identifier (keyword or IDENT)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}
