package asm

import (
	"fmt"
	"io"
	"runtime"
)

// Printer outputs x86-64 assembly in GNU as AT&T syntax
type Printer struct {
	w        io.Writer
	isDarwin bool
}

// NewPrinter creates a new assembly printer for the host OS
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterFor(w, runtime.GOOS)
}

// NewPrinterFor creates a printer that follows the symbol and section
// conventions of goos (Mach-O for "darwin", ELF otherwise)
func NewPrinterFor(w io.Writer, goos string) *Printer {
	return &Printer{w: w, isDarwin: goos == "darwin"}
}

// PrintProgram outputs an entire program
func (p *Printer) PrintProgram(prog *Program) {
	fmt.Fprintf(p.w, "\t.text\n")
	for _, f := range prog.Functions {
		p.printFunction(f)
	}

	// Mark the stack non-executable so GNU ld does not warn
	if !p.isDarwin {
		fmt.Fprintf(p.w, "\t.section\t.note.GNU-stack,\"\",@progbits\n")
	}
}

// symbolName returns the symbol name with platform-appropriate prefix
func (p *Printer) symbolName(name string) string {
	if p.isDarwin {
		return "_" + name
	}
	return name
}

func (p *Printer) printFunction(f Function) {
	name := p.symbolName(f.Name)
	fmt.Fprintf(p.w, "\t.globl\t%s\n", name)
	if !p.isDarwin {
		fmt.Fprintf(p.w, "\t.type\t%s, @function\n", name)
	}
	fmt.Fprintf(p.w, "%s:\n", name)

	for _, inst := range f.Code {
		p.printInstruction(inst)
	}

	if !p.isDarwin {
		fmt.Fprintf(p.w, "\t.size\t%s, .-%s\n", name, name)
	}
	fmt.Fprintf(p.w, "\n")
}

var regNames64 = []string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi"}
var regNames32 = []string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi"}
var regNames8 = []string{"al", "cl", "dl", "bl", "spl", "bpl", "sil", "dil"}

// regName returns the register name for the given width, with the % sigil
func regName(r Reg, w Width) string {
	if r < 0 || int(r) >= len(regNames64) {
		return fmt.Sprintf("%%r?%d", int(r))
	}
	switch w {
	case Byte:
		return "%" + regNames8[r]
	case Quad:
		return "%" + regNames64[r]
	}
	return "%" + regNames32[r]
}

func condSuffix(c Cond) string {
	switch c {
	case CondE:
		return "e"
	}
	return "?"
}

func (p *Printer) printInstruction(inst Instruction) {
	switch i := inst.(type) {
	// Data movement
	case MOVi:
		fmt.Fprintf(p.w, "\tmov%s\t$%d, %s\n", i.W.Suffix(), i.Imm, regName(i.Dst, i.W))
	case PUSH:
		fmt.Fprintf(p.w, "\tpushq\t%s\n", regName(i.Src, Quad))
	case POP:
		fmt.Fprintf(p.w, "\tpopq\t%s\n", regName(i.Dst, Quad))

	// Arithmetic
	case ADD:
		fmt.Fprintf(p.w, "\tadd%s\t%s, %s\n", i.W.Suffix(), regName(i.Src, i.W), regName(i.Dst, i.W))
	case SUB:
		fmt.Fprintf(p.w, "\tsub%s\t%s, %s\n", i.W.Suffix(), regName(i.Src, i.W), regName(i.Dst, i.W))
	case IMUL:
		fmt.Fprintf(p.w, "\timul%s\t%s, %s\n", i.W.Suffix(), regName(i.Src, i.W), regName(i.Dst, i.W))
	case IDIV:
		fmt.Fprintf(p.w, "\tidiv%s\t%s\n", i.W.Suffix(), regName(i.Src, i.W))
	case CLTD:
		fmt.Fprintf(p.w, "\tcltd\n")
	case NEG:
		fmt.Fprintf(p.w, "\tneg%s\t%s\n", i.W.Suffix(), regName(i.Dst, i.W))
	case NOT:
		fmt.Fprintf(p.w, "\tnot%s\t%s\n", i.W.Suffix(), regName(i.Dst, i.W))

	// Comparison
	case CMPi:
		fmt.Fprintf(p.w, "\tcmp%s\t$%d, %s\n", i.W.Suffix(), i.Imm, regName(i.Reg, i.W))
	case SETcc:
		fmt.Fprintf(p.w, "\tset%s\t%s\n", condSuffix(i.Cond), regName(i.Dst, Byte))

	// Control flow
	case RET:
		fmt.Fprintf(p.w, "\tret\n")

	default:
		fmt.Fprintf(p.w, "\t# unknown instruction %T\n", inst)
	}
}
