// Package llvmgen lowers the AST to textual LLVM IR.
package llvmgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/raymyers/ecc/pkg/ast"
)

// Builder lowers one program into an LLVM module
type Builder struct {
	mod   *ir.Module
	block *ir.Block
}

// NewBuilder creates a builder with an empty module
func NewBuilder() *Builder {
	return &Builder{mod: ir.NewModule()}
}

// Generate returns the LLVM IR for prog
func Generate(prog *ast.Program) string {
	return NewBuilder().Build(prog).String()
}

// Build lowers prog and returns the resulting module
func (b *Builder) Build(prog *ast.Program) *ir.Module {
	b.function(prog.Function)
	return b.mod
}

func (b *Builder) function(fn ast.Function) {
	f := b.mod.NewFunc(fn.Name, types.I32)
	b.block = f.NewBlock("")
	for _, stmt := range fn.Body {
		b.statement(stmt)
	}
}

func (b *Builder) statement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case ast.Return:
		b.block.NewRet(b.expression(s.Expr))
	default:
		panic(fmt.Sprintf("llvmgen: unexpected statement %T", stmt))
	}
}

func (b *Builder) expression(e ast.Expr) value.Value {
	switch e := e.(type) {
	case ast.Integer:
		return constant.NewInt(types.I32, int64(e.Value))
	case ast.Unary:
		return b.unary(e.Op, b.expression(e.Operand))
	case ast.Binary:
		l := b.expression(e.Left)
		r := b.expression(e.Right)
		return b.binary(e.Op, l, r)
	}
	panic(fmt.Sprintf("llvmgen: unexpected expression %T", e))
}

func (b *Builder) unary(op ast.UnaryOp, v value.Value) value.Value {
	switch op {
	case ast.OpComplement:
		return b.block.NewXor(v, constant.NewInt(types.I32, -1))
	case ast.OpNegate:
		return b.block.NewSub(constant.NewInt(types.I32, 0), v)
	case ast.OpNot:
		cmp := b.block.NewICmp(enum.IPredEQ, v, constant.NewInt(types.I32, 0))
		return b.block.NewZExt(cmp, types.I32)
	}
	panic(fmt.Sprintf("llvmgen: unexpected unary operator %v", op))
}

func (b *Builder) binary(op ast.BinaryOp, l, r value.Value) value.Value {
	switch op {
	case ast.OpAdd:
		return b.block.NewAdd(l, r)
	case ast.OpSub:
		return b.block.NewSub(l, r)
	case ast.OpMul:
		return b.block.NewMul(l, r)
	case ast.OpDiv:
		return b.block.NewSDiv(l, r)
	}
	panic(fmt.Sprintf("llvmgen: unexpected binary operator %v", op))
}
