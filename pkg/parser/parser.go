// Package parser implements a recursive descent parser for C.
// Expressions are parsed by precedence climbing.
package parser

import (
	"fmt"
	"strconv"

	"github.com/raymyers/ecc/pkg/ast"
	"github.com/raymyers/ecc/pkg/lexer"
)

// Binding strengths, lowest first.
const (
	precLowest = iota
	precSum     // + -
	precProduct // * /
	precPrefix  // ! - ~
)

var infixPrecedence = map[lexer.TokenType]int{
	lexer.TokenPlus:  precSum,
	lexer.TokenMinus: precSum,
	lexer.TokenStar:  precProduct,
	lexer.TokenSlash: precProduct,
}

var binaryOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.TokenPlus:  ast.OpAdd,
	lexer.TokenMinus: ast.OpSub,
	lexer.TokenStar:  ast.OpMul,
	lexer.TokenSlash: ast.OpDiv,
}

var unaryOps = map[lexer.TokenType]ast.UnaryOp{
	lexer.TokenTilde: ast.OpComplement,
	lexer.TokenMinus: ast.OpNegate,
	lexer.TokenNot:   ast.OpNot,
}

// Parser parses a token sequence into an AST
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a new Parser over the given tokens. Any TokenEOF in the
// sequence is treated as the end of input.
func New(tokens []lexer.Token) *Parser {
	for i, tok := range tokens {
		if tok.Type == lexer.TokenEOF {
			tokens = tokens[:i]
			break
		}
	}
	return &Parser{tokens: tokens}
}

// Parse parses a complete program from tokens. On failure the error is a
// *ParseError.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	return New(tokens).ParseProgram()
}

// curToken returns the current token, or nil at end of input
func (p *Parser) curToken() *lexer.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	tok := p.curToken()
	return tok != nil && tok.Type == t
}

// describe names the current token for error messages
func (p *Parser) describe() string {
	tok := p.curToken()
	if tok == nil {
		return lexer.TokenEOF.String()
	}
	if tok.Type == lexer.TokenIllegal {
		return fmt.Sprintf("invalid character %q", tok.Literal)
	}
	if tok.Type == lexer.TokenIdent || tok.Type == lexer.TokenInt {
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	}
	return tok.Type.String()
}

func (p *Parser) errorf(kind ErrorKind, format string, args ...any) *ParseError {
	var tok *lexer.Token
	if cur := p.curToken(); cur != nil {
		t := *cur
		tok = &t
	}
	return &ParseError{Token: tok, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// expect consumes the current token if it has type t
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.curTokenIs(t) {
		tok := *p.curToken()
		p.nextToken()
		return tok, nil
	}
	return lexer.Token{}, p.errorf(ErrSyntax, "expected %s, got %s", t, p.describe())
}

// ParseProgram parses a single function and requires that nothing follows it
func (p *Parser) ParseProgram() (*ast.Program, error) {
	fn, err := p.parseFunction()
	if err != nil {
		return nil, err
	}
	if p.curToken() != nil {
		return nil, p.errorf(ErrTrailingInput, "expected end of input, got %s", p.describe())
	}
	return &ast.Program{Function: fn}, nil
}

// parseFunction parses: 'int' IDENT '(' 'void' ')' '{' statement '}'
func (p *Parser) parseFunction() (ast.Function, error) {
	if _, err := p.expect(lexer.TokenInt_); err != nil {
		return ast.Function{}, err
	}

	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return ast.Function{}, err
	}

	for _, t := range []lexer.TokenType{lexer.TokenLParen, lexer.TokenVoid, lexer.TokenRParen, lexer.TokenLBrace} {
		if _, err := p.expect(t); err != nil {
			return ast.Function{}, err
		}
	}

	stmt, err := p.parseStatement()
	if err != nil {
		return ast.Function{}, err
	}

	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return ast.Function{}, err
	}

	return ast.Function{Name: name.Literal, Body: []ast.Stmt{stmt}}, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	if p.curTokenIs(lexer.TokenReturn) {
		return p.parseReturnStatement()
	}
	return nil, p.errorf(ErrSyntax, "expected statement, got %s", p.describe())
}

func (p *Parser) parseReturnStatement() (ast.Stmt, error) {
	p.nextToken() // consume 'return'

	expr, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}

	return ast.Return{Expr: expr}, nil
}

// parseExpression parses a prefix term, then folds in every infix operator
// that binds tighter than minPrec.
func (p *Parser) parseExpression(minPrec int) (ast.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.curToken()
		if tok == nil {
			return left, nil
		}
		prec, ok := infixPrecedence[tok.Type]
		if !ok || prec <= minPrec {
			return left, nil
		}
		op := binaryOps[tok.Type]
		p.nextToken()

		right, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parsePrefix() (ast.Expr, error) {
	tok := p.curToken()
	if tok == nil {
		return nil, p.errorf(ErrSyntax, "expected expression, got %s", p.describe())
	}

	switch tok.Type {
	case lexer.TokenInt:
		return p.parseInteger()
	case lexer.TokenLParen:
		p.nextToken()
		expr, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.TokenTilde, lexer.TokenMinus, lexer.TokenNot:
		op := unaryOps[tok.Type]
		p.nextToken()
		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: op, Operand: operand}, nil
	}

	return nil, p.errorf(ErrSyntax, "expected expression, got %s", p.describe())
}

func (p *Parser) parseInteger() (ast.Expr, error) {
	lit := p.curToken().Literal
	value, err := strconv.ParseInt(lit, 10, 32)
	if err != nil {
		return nil, p.errorf(ErrIntegerRange, "integer literal %s out of range", lit)
	}
	p.nextToken()
	return ast.Integer{Value: int32(value)}, nil
}
