// Package asm defines the x86-64 assembly representation.
// This is the final output of the compiler, printed in AT&T syntax
// for the GNU assembler.
package asm

// Reg is a general purpose register. The printed name depends on the
// operand width of the instruction that uses it.
type Reg int

const (
	RAX Reg = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
)

// Width selects the operand size of an instruction
type Width int

const (
	Byte Width = iota // 8-bit, b suffix
	Long              // 32-bit, l suffix
	Quad              // 64-bit, q suffix
)

// Suffix returns the AT&T mnemonic suffix for the width
func (w Width) Suffix() string {
	switch w {
	case Byte:
		return "b"
	case Quad:
		return "q"
	}
	return "l"
}

// Cond is a condition code for SETcc
type Cond int

const (
	CondE Cond = iota // equal / zero
)

// --- Instruction Interface ---

// Instruction is the interface for x86-64 instructions
type Instruction interface {
	implInstruction()
}

// --- Data Movement ---

// MOVi - Move immediate into register
type MOVi struct {
	Imm int64
	Dst Reg
	W   Width
}

// PUSH - Push a 64-bit register onto the machine stack
type PUSH struct {
	Src Reg
}

// POP - Pop the top of the machine stack into a 64-bit register
type POP struct {
	Dst Reg
}

// --- Arithmetic ---

// ADD - Dst = Dst + Src
type ADD struct {
	Src, Dst Reg
	W        Width
}

// SUB - Dst = Dst - Src
type SUB struct {
	Src, Dst Reg
	W        Width
}

// IMUL - Signed multiply, Dst = Dst * Src
type IMUL struct {
	Src, Dst Reg
	W        Width
}

// IDIV - Signed divide of edx:eax (or rdx:rax) by Src.
// Quotient goes to eax, remainder to edx.
type IDIV struct {
	Src Reg
	W   Width
}

// CLTD - Sign-extend eax into edx:eax (Intel: cdq)
type CLTD struct{}

// NEG - Two's complement negation in place
type NEG struct {
	Dst Reg
	W   Width
}

// NOT - Bitwise complement in place
type NOT struct {
	Dst Reg
	W   Width
}

// --- Comparison ---

// CMPi - Compare register with immediate (computes Reg - Imm, sets flags)
type CMPi struct {
	Imm int64
	Reg Reg
	W   Width
}

// SETcc - Set the low byte of Dst to 1 if the condition holds, else 0
type SETcc struct {
	Cond Cond
	Dst  Reg
}

// --- Control Flow ---

// RET - Return from subroutine
type RET struct{}

// --- Marker methods for Instruction interface ---

func (MOVi) implInstruction()  {}
func (PUSH) implInstruction()  {}
func (POP) implInstruction()   {}
func (ADD) implInstruction()   {}
func (SUB) implInstruction()   {}
func (IMUL) implInstruction()  {}
func (IDIV) implInstruction()  {}
func (CLTD) implInstruction()  {}
func (NEG) implInstruction()   {}
func (NOT) implInstruction()   {}
func (CMPi) implInstruction()  {}
func (SETcc) implInstruction() {}
func (RET) implInstruction()   {}

// --- Function and Program ---

// Function represents an assembly function
type Function struct {
	Name string
	Code []Instruction
}

// Program represents a complete assembly program
type Program struct {
	Functions []Function
}

// NewFunction creates a new assembly function
func NewFunction(name string) *Function {
	return &Function{
		Name: name,
		Code: make([]Instruction, 0),
	}
}

// Append adds instructions to the function
func (f *Function) Append(insts ...Instruction) {
	f.Code = append(f.Code, insts...)
}
