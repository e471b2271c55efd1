// Package qbegen lowers the AST to QBE intermediate language and hands it
// to QBE for instruction selection.
package qbegen

import (
	"fmt"
	"strings"

	"github.com/raymyers/ecc/pkg/ast"
)

// Targets lists the QBE targets accepted by Assemble
var Targets = []string{"amd64_sysv", "amd64_apple", "arm64", "arm64_apple", "rv64"}

// IsTarget reports whether name is a known QBE target
func IsTarget(name string) bool {
	for _, t := range Targets {
		if t == name {
			return true
		}
	}
	return false
}

type generator struct {
	out  *strings.Builder
	temp int
}

// GenerateIL returns the QBE IL for prog
func GenerateIL(prog *ast.Program) string {
	var sb strings.Builder
	g := &generator{out: &sb}
	g.function(prog.Function)
	return sb.String()
}

func (g *generator) newTemp() string {
	g.temp++
	return fmt.Sprintf("%%t%d", g.temp)
}

func (g *generator) function(fn ast.Function) {
	fmt.Fprintf(g.out, "export function w $%s() {\n@start\n", fn.Name)
	for _, stmt := range fn.Body {
		g.statement(stmt)
	}
	g.out.WriteString("}\n")
}

func (g *generator) statement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case ast.Return:
		fmt.Fprintf(g.out, "\tret %s\n", g.expression(s.Expr))
	default:
		panic(fmt.Sprintf("qbegen: unexpected statement %T", stmt))
	}
}

// expression emits code for e and returns the temporary holding its value
func (g *generator) expression(e ast.Expr) string {
	switch e := e.(type) {
	case ast.Integer:
		return g.emit("copy %d", e.Value)
	case ast.Unary:
		v := g.expression(e.Operand)
		switch e.Op {
		case ast.OpComplement:
			return g.emit("xor %s, -1", v)
		case ast.OpNegate:
			return g.emit("neg %s", v)
		case ast.OpNot:
			return g.emit("ceqw %s, 0", v)
		}
		panic(fmt.Sprintf("qbegen: unexpected unary operator %v", e.Op))
	case ast.Binary:
		l := g.expression(e.Left)
		r := g.expression(e.Right)
		return g.emit("%s %s, %s", binaryOpcode(e.Op), l, r)
	}
	panic(fmt.Sprintf("qbegen: unexpected expression %T", e))
}

func (g *generator) emit(format string, args ...any) string {
	t := g.newTemp()
	fmt.Fprintf(g.out, "\t%s =w %s\n", t, fmt.Sprintf(format, args...))
	return t
}

func binaryOpcode(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "add"
	case ast.OpSub:
		return "sub"
	case ast.OpMul:
		return "mul"
	case ast.OpDiv:
		return "div"
	}
	panic(fmt.Sprintf("qbegen: unexpected binary operator %v", op))
}
