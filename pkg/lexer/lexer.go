// Package lexer splits C source text into tokens.
package lexer

// Lexer tokenizes C source code
type Lexer struct {
	input  string
	pos    int  // offset of ch in input
	ch     byte // current character, 0 at end of input
	line   int  // line of ch
	column int  // column of ch
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 1}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

// Tokenize lexes the whole input. The result never contains TokenEOF;
// unrecognized characters come back as TokenIllegal tokens.
func Tokenize(input string) []Token {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// readChar consumes the current character
func (l *Lexer) readChar() {
	if l.atEOF() {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
	if l.atEOF() {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
}

func (l *Lexer) peekChar() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// NextToken returns the next token from the input. At end of input it
// returns TokenEOF, and keeps doing so on further calls.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	if l.atEOF() {
		return Token{Type: TokenEOF, Line: l.line, Column: l.column}
	}

	var tok Token
	switch l.ch {
	case '{':
		tok = l.newToken(TokenLBrace)
	case '}':
		tok = l.newToken(TokenRBrace)
	case '(':
		tok = l.newToken(TokenLParen)
	case ')':
		tok = l.newToken(TokenRParen)
	case ';':
		tok = l.newToken(TokenSemicolon)
	case '!':
		tok = l.newToken(TokenNot)
	case '-':
		tok = l.newToken(TokenMinus)
	case '+':
		tok = l.newToken(TokenPlus)
	case '/':
		tok = l.newToken(TokenSlash)
	case '*':
		tok = l.newToken(TokenStar)
	case '~':
		tok = l.newToken(TokenTilde)
	default:
		if isLetter(l.ch) {
			tok = Token{Line: l.line, Column: l.column}
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok = Token{Type: TokenInt, Line: l.line, Column: l.column}
			tok.Literal = l.readNumber()
			return tok
		}
		tok = l.newToken(TokenIllegal)
	}

	l.readChar()
	return tok
}

// newToken makes a one-byte token. The literal is sliced from the input so
// a non-ASCII byte stays a single byte.
func (l *Lexer) newToken(tokenType TokenType) Token {
	return Token{Type: tokenType, Literal: l.input[l.pos : l.pos+1], Line: l.line, Column: l.column}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		switch {
		case isSpace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			// the newline is left for the whitespace case
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for !l.atEOF() && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *Lexer) readNumber() string {
	pos := l.pos
	for !l.atEOF() && isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
