package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs the AST as C source
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintProgram prints a complete program
func (p *Printer) PrintProgram(prog *Program) {
	p.printFunction(prog.Function)
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printFunction(f Function) {
	fmt.Fprintf(p.w, "int %s(void)\n", f.Name)
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, stmt := range f.Body {
		p.printStmt(stmt)
	}
	p.indent--
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printStmt(stmt Stmt) {
	p.writeIndent()
	switch s := stmt.(type) {
	case Return:
		fmt.Fprint(p.w, "return ")
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ";")
	default:
		fmt.Fprintf(p.w, "/* unknown statement %T */\n", stmt)
	}
}

// PrintExpr prints a single expression without a trailing newline
func (p *Printer) PrintExpr(expr Expr) {
	p.printExpr(expr)
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case Integer:
		fmt.Fprintf(p.w, "%d", e.Value)
	case Unary:
		fmt.Fprint(p.w, e.Op.String())
		// keep "- -1" from printing as the decrement "--1"
		if inner, ok := e.Operand.(Unary); ok && inner.Op == e.Op && e.Op == OpNegate {
			fmt.Fprint(p.w, " ")
		} else if lit, ok := e.Operand.(Integer); ok && lit.Value < 0 && e.Op == OpNegate {
			fmt.Fprint(p.w, " ")
		}
		p.printExpr(e.Operand)
	case Binary:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.Left)
		fmt.Fprintf(p.w, " %s ", e.Op.String())
		p.printExpr(e.Right)
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

// String renders an expression in fully parenthesised C form
func String(expr Expr) string {
	var sb strings.Builder
	NewPrinter(&sb).PrintExpr(expr)
	return sb.String()
}
