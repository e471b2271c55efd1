// Package asmgen lowers the AST to x86-64 assembly.
//
// Every expression leaves its value in %eax. A binary operator evaluates
// its right operand first and parks it on the machine stack while the left
// operand is evaluated, then pops it into %ecx so the combine step reads
// "left op right" as "%eax op %ecx". The order is only safe because
// operands have no side effects.
package asmgen

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/raymyers/ecc/pkg/asm"
	"github.com/raymyers/ecc/pkg/ast"
)

// Register convention
const (
	accumulator = asm.RAX
	secondary   = asm.RCX
)

// Generate compiles a program to assembly text for the host OS
func Generate(prog *ast.Program) string {
	return GenerateFor(prog, runtime.GOOS)
}

// GenerateFor compiles a program to assembly text using the symbol
// conventions of goos
func GenerateFor(prog *ast.Program, goos string) string {
	var sb strings.Builder
	asm.NewPrinterFor(&sb, goos).PrintProgram(TransformProgram(prog))
	return sb.String()
}

// TransformProgram transforms an AST program to assembly
func TransformProgram(prog *ast.Program) *asm.Program {
	return &asm.Program{
		Functions: []asm.Function{transformFunction(prog.Function)},
	}
}

// genContext holds state during code generation
type genContext struct {
	fn *asm.Function
}

// transformFunction transforms a single function to assembly
func transformFunction(f ast.Function) asm.Function {
	ctx := &genContext{fn: asm.NewFunction(f.Name)}
	for _, stmt := range f.Body {
		ctx.translateStmt(stmt)
	}
	return *ctx.fn
}

func (ctx *genContext) emit(insts ...asm.Instruction) {
	ctx.fn.Append(insts...)
}

func (ctx *genContext) translateStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case ast.Return:
		// the value is already where the calling convention wants it
		ctx.translateExpr(s.Expr)
		ctx.emit(asm.RET{})
	default:
		panic(fmt.Sprintf("asmgen: unexpected statement %T", stmt))
	}
}

// translateExpr generates code leaving the value of e in the accumulator
func (ctx *genContext) translateExpr(e ast.Expr) {
	switch e := e.(type) {
	case ast.Integer:
		ctx.emit(asm.MOVi{Imm: int64(e.Value), Dst: accumulator, W: asm.Long})
	case ast.Unary:
		ctx.translateExpr(e.Operand)
		ctx.translateUnary(e.Op)
	case ast.Binary:
		ctx.translateExpr(e.Right)
		ctx.emit(asm.PUSH{Src: accumulator})
		ctx.translateExpr(e.Left)
		ctx.emit(asm.POP{Dst: secondary})
		ctx.translateBinary(e.Op)
	default:
		panic(fmt.Sprintf("asmgen: unexpected expression %T", e))
	}
}

func (ctx *genContext) translateUnary(op ast.UnaryOp) {
	switch op {
	case ast.OpComplement:
		ctx.emit(asm.NOT{Dst: accumulator, W: asm.Long})
	case ast.OpNegate:
		ctx.emit(asm.NEG{Dst: accumulator, W: asm.Long})
	case ast.OpNot:
		// mov rather than xor: xor would clobber the flags from cmp
		ctx.emit(
			asm.CMPi{Imm: 0, Reg: accumulator, W: asm.Long},
			asm.MOVi{Imm: 0, Dst: accumulator, W: asm.Long},
			asm.SETcc{Cond: asm.CondE, Dst: accumulator},
		)
	default:
		panic(fmt.Sprintf("asmgen: unexpected unary operator %v", op))
	}
}

// translateBinary combines the left operand (accumulator) with the right
// operand (secondary)
func (ctx *genContext) translateBinary(op ast.BinaryOp) {
	switch op {
	case ast.OpAdd:
		ctx.emit(asm.ADD{Src: secondary, Dst: accumulator, W: asm.Long})
	case ast.OpSub:
		ctx.emit(asm.SUB{Src: secondary, Dst: accumulator, W: asm.Long})
	case ast.OpMul:
		ctx.emit(asm.IMUL{Src: secondary, Dst: accumulator, W: asm.Long})
	case ast.OpDiv:
		ctx.emit(asm.CLTD{}, asm.IDIV{Src: secondary, W: asm.Long})
	default:
		panic(fmt.Sprintf("asmgen: unexpected binary operator %v", op))
	}
}
