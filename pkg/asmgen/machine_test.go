package asmgen

import (
	"errors"
	"fmt"

	"github.com/raymyers/ecc/pkg/asm"
)

var errDivideError = errors.New("divide error")

// machine is a tiny x86-64 interpreter for the instructions asmgen emits.
// Registers hold 64-bit values; 32-bit writes zero the upper half as on
// real hardware.
type machine struct {
	regs  [8]uint64
	stack []uint64
	zf    bool
	steps int
}

func (m *machine) read(r asm.Reg, w asm.Width) uint64 {
	v := m.regs[r]
	switch w {
	case asm.Byte:
		return v & 0xff
	case asm.Long:
		return v & 0xffffffff
	}
	return v
}

func (m *machine) write(r asm.Reg, w asm.Width, v uint64) {
	switch w {
	case asm.Byte:
		m.regs[r] = m.regs[r]&^0xff | v&0xff
	case asm.Long:
		m.regs[r] = v & 0xffffffff
	default:
		m.regs[r] = v
	}
}

// run executes fn until RET and returns %eax as a signed 32-bit value
func (m *machine) run(fn asm.Function) (int32, error) {
	for _, inst := range fn.Code {
		m.steps++
		switch i := inst.(type) {
		case asm.MOVi:
			m.write(i.Dst, i.W, uint64(i.Imm))
		case asm.PUSH:
			m.stack = append(m.stack, m.regs[i.Src])
		case asm.POP:
			if len(m.stack) == 0 {
				return 0, fmt.Errorf("pop from empty stack")
			}
			m.regs[i.Dst] = m.stack[len(m.stack)-1]
			m.stack = m.stack[:len(m.stack)-1]
		case asm.ADD:
			m.write(i.Dst, i.W, m.read(i.Dst, i.W)+m.read(i.Src, i.W))
		case asm.SUB:
			m.write(i.Dst, i.W, m.read(i.Dst, i.W)-m.read(i.Src, i.W))
		case asm.IMUL:
			a, b := int32(m.read(i.Dst, asm.Long)), int32(m.read(i.Src, asm.Long))
			m.write(i.Dst, i.W, uint64(uint32(a*b)))
		case asm.CLTD:
			if int32(m.read(asm.RAX, asm.Long)) < 0 {
				m.write(asm.RDX, asm.Long, 0xffffffff)
			} else {
				m.write(asm.RDX, asm.Long, 0)
			}
		case asm.IDIV:
			divisor := int64(int32(m.read(i.Src, asm.Long)))
			dividend := int64(m.read(asm.RDX, asm.Long)<<32 | m.read(asm.RAX, asm.Long))
			if divisor == 0 {
				return 0, errDivideError
			}
			q, r := dividend/divisor, dividend%divisor
			if q > 1<<31-1 || q < -1<<31 {
				return 0, errDivideError
			}
			m.write(asm.RAX, asm.Long, uint64(uint32(int32(q))))
			m.write(asm.RDX, asm.Long, uint64(uint32(int32(r))))
		case asm.NEG:
			m.write(i.Dst, i.W, -m.read(i.Dst, i.W))
		case asm.NOT:
			m.write(i.Dst, i.W, ^m.read(i.Dst, i.W))
		case asm.CMPi:
			m.zf = m.read(i.Reg, i.W) == uint64(i.Imm)&0xffffffff
		case asm.SETcc:
			if i.Cond != asm.CondE {
				return 0, fmt.Errorf("unsupported condition %v", i.Cond)
			}
			if m.zf {
				m.write(i.Dst, asm.Byte, 1)
			} else {
				m.write(i.Dst, asm.Byte, 0)
			}
		case asm.RET:
			if len(m.stack) != 0 {
				return 0, fmt.Errorf("return with %d values left on the stack", len(m.stack))
			}
			return int32(m.read(asm.RAX, asm.Long)), nil
		default:
			return 0, fmt.Errorf("unsupported instruction %T", inst)
		}
	}
	return 0, fmt.Errorf("fell off the end of %s", fn.Name)
}
