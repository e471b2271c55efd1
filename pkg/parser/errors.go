package parser

import (
	"fmt"

	"github.com/raymyers/ecc/pkg/lexer"
)

// ErrorKind classifies a parse failure
type ErrorKind int

const (
	// ErrSyntax is an unexpected token or an unexpected end of input
	ErrSyntax ErrorKind = iota
	// ErrTrailingInput means tokens remain after the function
	ErrTrailingInput
	// ErrIntegerRange is an integer literal that does not fit in 32 bits
	ErrIntegerRange
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrTrailingInput:
		return "trailing input"
	case ErrIntegerRange:
		return "integer out of range"
	}
	return "unknown error"
}

// ParseError is the single failure a parse can produce. A nil Token means
// the input ended where a token was required.
type ParseError struct {
	Token   *lexer.Token
	Kind    ErrorKind
	Message string
}

func (e *ParseError) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("end of input: %s", e.Message)
	}
	return fmt.Sprintf("line %d, col %d: %s", e.Token.Line, e.Token.Column, e.Message)
}

// AtEOF reports whether the error was caused by running out of tokens
func (e *ParseError) AtEOF() bool {
	return e.Token == nil
}
