package asmgen

import (
	"strings"
	"testing"

	"github.com/raymyers/ecc/pkg/asm"
	"github.com/raymyers/ecc/pkg/ast"
	"github.com/raymyers/ecc/pkg/lexer"
	"github.com/raymyers/ecc/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(lexer.Tokenize(src))
	require.NoError(t, err)
	return prog
}

func returning(expr string) string {
	return "int main(void) { return " + expr + "; }"
}

func TestTransformSimpleFunction(t *testing.T) {
	result := TransformProgram(mustParse(t, "int add_one(void){return 41;}"))

	require.Len(t, result.Functions, 1)
	fn := result.Functions[0]
	assert.Equal(t, "add_one", fn.Name)
	assert.Equal(t, []asm.Instruction{
		asm.MOVi{Imm: 41, Dst: asm.RAX, W: asm.Long},
		asm.RET{},
	}, fn.Code)
}

func TestTransformUnary(t *testing.T) {
	tests := []struct {
		expr string
		want []asm.Instruction
	}{
		{"~5", []asm.Instruction{
			asm.MOVi{Imm: 5, Dst: asm.RAX, W: asm.Long},
			asm.NOT{Dst: asm.RAX, W: asm.Long},
			asm.RET{},
		}},
		{"-5", []asm.Instruction{
			asm.MOVi{Imm: 5, Dst: asm.RAX, W: asm.Long},
			asm.NEG{Dst: asm.RAX, W: asm.Long},
			asm.RET{},
		}},
		{"!5", []asm.Instruction{
			asm.MOVi{Imm: 5, Dst: asm.RAX, W: asm.Long},
			asm.CMPi{Imm: 0, Reg: asm.RAX, W: asm.Long},
			asm.MOVi{Imm: 0, Dst: asm.RAX, W: asm.Long},
			asm.SETcc{Cond: asm.CondE, Dst: asm.RAX},
			asm.RET{},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			fn := TransformProgram(mustParse(t, returning(tt.expr))).Functions[0]
			assert.Equal(t, tt.want, fn.Code)
		})
	}
}

func TestTransformBinaryEvaluatesRightFirst(t *testing.T) {
	fn := TransformProgram(mustParse(t, returning("7 - 2"))).Functions[0]

	assert.Equal(t, []asm.Instruction{
		asm.MOVi{Imm: 2, Dst: asm.RAX, W: asm.Long},
		asm.PUSH{Src: asm.RAX},
		asm.MOVi{Imm: 7, Dst: asm.RAX, W: asm.Long},
		asm.POP{Dst: asm.RCX},
		asm.SUB{Src: asm.RCX, Dst: asm.RAX, W: asm.Long},
		asm.RET{},
	}, fn.Code)
}

func TestTransformDivideSignExtends(t *testing.T) {
	fn := TransformProgram(mustParse(t, returning("8 / 2"))).Functions[0]

	require.GreaterOrEqual(t, len(fn.Code), 3)
	tail := fn.Code[len(fn.Code)-3:]
	assert.Equal(t, []asm.Instruction{
		asm.CLTD{},
		asm.IDIV{Src: asm.RCX, W: asm.Long},
		asm.RET{},
	}, tail)
}

func TestGenerateText(t *testing.T) {
	got := GenerateFor(mustParse(t, returning("1 - 2")), "linux")

	want := "\t.text\n" +
		"\t.globl\tmain\n" +
		"\t.type\tmain, @function\n" +
		"main:\n" +
		"\tmovl\t$2, %eax\n" +
		"\tpushq\t%rax\n" +
		"\tmovl\t$1, %eax\n" +
		"\tpopq\t%rcx\n" +
		"\tsubl\t%ecx, %eax\n" +
		"\tret\n" +
		"\t.size\tmain, .-main\n" +
		"\n" +
		"\t.section\t.note.GNU-stack,\"\",@progbits\n"
	assert.Equal(t, want, got)
}

func TestGenerateDarwinSymbols(t *testing.T) {
	got := GenerateFor(mustParse(t, returning("0")), "darwin")
	assert.Contains(t, got, "\t.globl\t_main\n_main:\n")
	assert.NotContains(t, got, ".type")
}

func TestGenerateUsesHostPrinter(t *testing.T) {
	got := Generate(mustParse(t, returning("3")))
	assert.Contains(t, got, "\tmovl\t$3, %eax\n")
	assert.True(t, strings.HasPrefix(got, "\t.text\n"))
}

func TestExecuteGeneratedCode(t *testing.T) {
	tests := []struct {
		expr string
		want int32
	}{
		{"2+3*4", 14},
		{"!0", 1},
		{"!7", 0},
		{"~0", -1},
		{"-5", -5},
		{"8-4-2", 2},
		{"(1+2)*3", 9},
		{"-2*3", -6},
		{"7/2", 3},
		{"-7/2", -3},
		{"7/-2", -3},
		{"100/10/5", 2},
		{"2*3+4*5-6/2", 23},
		{"!(1-1)", 1},
		{"~-1", 0},
		{"--2147483647", 2147483647},
		{"2147483647+1", -2147483648},
		{"-(1+2)-(3*4)", -15},
		{"((((((1+1)*2)+1)*2)+1)*2)", 22},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prog := TransformProgram(mustParse(t, returning(tt.expr)))
			m := &machine{}
			got, err := m.run(prog.Functions[0])
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecuteDivideByZeroTraps(t *testing.T) {
	prog := TransformProgram(mustParse(t, returning("1/0")))
	m := &machine{}
	_, err := m.run(prog.Functions[0])
	assert.ErrorIs(t, err, errDivideError)
}

// Pushes stay pending while the left operand is evaluated, so a
// left-nested chain of n operators peaks at n.
func TestStackIsBalanced(t *testing.T) {
	fn := TransformProgram(mustParse(t, returning("8-4-2-1"))).Functions[0]
	depth, maxDepth := 0, 0
	for _, inst := range fn.Code {
		switch inst.(type) {
		case asm.PUSH:
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case asm.POP:
			depth--
			require.GreaterOrEqual(t, depth, 0)
		}
	}
	assert.Equal(t, 0, depth)
	assert.Equal(t, 3, maxDepth)
}

func TestRightNestedStackDepth(t *testing.T) {
	fn := TransformProgram(mustParse(t, returning("1+2*(3-4)/5"))).Functions[0]
	depth, maxDepth := 0, 0
	for _, inst := range fn.Code {
		switch inst.(type) {
		case asm.PUSH:
			depth++
			maxDepth = max(maxDepth, depth)
		case asm.POP:
			depth--
		}
	}
	assert.Equal(t, 0, depth)
	assert.Equal(t, 2, maxDepth)
}

func TestUnknownNodePanics(t *testing.T) {
	ctx := &genContext{fn: asm.NewFunction("f")}
	assert.Panics(t, func() { ctx.translateUnary(ast.UnaryOp(99)) })
	assert.Panics(t, func() { ctx.translateBinary(ast.BinaryOp(99)) })
}
