// Package ast defines the abstract syntax tree for the supported C subset.
package ast

// Node is the base interface for all AST nodes
type Node interface {
	implNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implExpr()
}

// Stmt is the interface for all statement nodes
type Stmt interface {
	Node
	implStmt()
}

// BinaryOp represents binary operators
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op BinaryOp) String() string {
	names := []string{"+", "-", "*", "/"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// UnaryOp represents unary operators
type UnaryOp int

const (
	OpComplement UnaryOp = iota // ~
	OpNegate                    // -
	OpNot                       // !
)

func (op UnaryOp) String() string {
	names := []string{"~", "-", "!"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Integer represents a 32-bit integer literal
type Integer struct {
	Value int32
}

// Unary represents a unary expression
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

// Binary represents a binary expression
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Return represents a return statement
type Return struct {
	Expr Expr
}

// Function is an int-returning function with no parameters.
// Body is never empty.
type Function struct {
	Name string
	Body []Stmt
}

// Program is a whole translation unit: exactly one function.
type Program struct {
	Function Function
}

// Marker methods for interface implementation
func (Integer) implNode() {}
func (Integer) implExpr() {}

func (Unary) implNode() {}
func (Unary) implExpr() {}

func (Binary) implNode() {}
func (Binary) implExpr() {}

func (Return) implNode() {}
func (Return) implStmt() {}
