package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/lc3sim/word"
)

// CodeOp is the operation in bits 0-3 of an instruction.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_BR   = CodeOp(0)  // br
	OP_ADD  = CodeOp(1)  // add
	OP_LD   = CodeOp(2)  // ld
	OP_ST   = CodeOp(3)  // st
	OP_JSR  = CodeOp(4)  // jsr
	OP_AND  = CodeOp(5)  // and
	OP_LDR  = CodeOp(6)  // ldr
	OP_STR  = CodeOp(7)  // str
	OP_RTI  = CodeOp(8)  // rti
	OP_NOT  = CodeOp(9)  // not
	OP_LDI  = CodeOp(10) // ldi
	OP_STI  = CodeOp(11) // sti
	OP_JMP  = CodeOp(12) // jmp
	OP_RES  = CodeOp(13) // res
	OP_LEA  = CodeOp(14) // lea
	OP_TRAP = CodeOp(15) // trap
)

// Implemented returns true if the cpu executes the operation.
// ST, JSR, RTI, JMP and the reserved operation are decoded as invalid.
func (op CodeOp) Implemented() bool {
	switch op {
	case OP_BR, OP_ADD, OP_LD, OP_AND, OP_LDR, OP_STR, OP_NOT, OP_LDI, OP_STI, OP_LEA, OP_TRAP:
		return true
	}
	return false
}

// CodeTrap is a TRAP vector.
type CodeTrap int

//go:generate go tool stringer -linecomment -type=CodeTrap
const (
	TRAP_OUT  = CodeTrap(0x21) // out
	TRAP_HALT = CodeTrap(0x25) // halt
)

// span is an instruction field, as a start bit (MSB first) and a length.
type span struct {
	start  int
	length int
}

// Instruction fields.
var (
	fieldOp      = span{0, 4}
	fieldReg1    = span{4, 3} // DR, SR of a store, or BR condition.
	fieldReg2    = span{7, 3} // SR1 or BaseR.
	fieldMode    = span{10, 1}
	fieldImm5    = span{11, 5}
	fieldReg3    = span{13, 3} // SR2
	fieldOffset6 = span{10, 6}
	fieldOffset9 = span{7, 9}
	fieldTrap    = span{8, 8}
)

// Code is a single instruction word.
type Code struct {
	word.Word
}

// fields slices the instruction into the requested fields.
func (code Code) fields(spans ...span) (out []word.Word, err error) {
	out = make([]word.Word, len(spans))
	for n, sp := range spans {
		out[n], err = code.Slice(sp.start, sp.length)
		if err != nil {
			return
		}
	}
	return
}

// Op returns the operation of the instruction.
func (code Code) Op() (op CodeOp, err error) {
	out, err := code.fields(fieldOp)
	if err != nil {
		return
	}

	op = CodeOp(out[0].Unsigned())
	return
}

// PcOffsetDecode decodes BR, LD, LDI, STI and LEA: the register (or BR
// condition) and the 9-bit PC offset.
func (code Code) PcOffsetDecode() (reg, offset word.Word, err error) {
	out, err := code.fields(fieldReg1, fieldOffset9)
	if err != nil {
		return
	}

	reg, offset = out[0], out[1]
	return
}

// BaseOffsetDecode decodes LDR and STR: the register, base register and
// 6-bit offset.
func (code Code) BaseOffsetDecode() (reg, base, offset word.Word, err error) {
	out, err := code.fields(fieldReg1, fieldReg2, fieldOffset6)
	if err != nil {
		return
	}

	reg, base, offset = out[0], out[1], out[2]
	return
}

// OperateDecode decodes ADD and AND. If 'immediate', arg is the 5-bit
// immediate; otherwise it is the second source register.
func (code Code) OperateDecode() (dst, src word.Word, immediate bool, arg word.Word, err error) {
	out, err := code.fields(fieldReg1, fieldReg2, fieldMode, fieldImm5, fieldReg3)
	if err != nil {
		return
	}

	dst, src = out[0], out[1]
	immediate = out[2].Unsigned() == 1
	if immediate {
		arg = out[3]
	} else {
		arg = out[4]
	}
	return
}

// NotDecode decodes NOT: the destination and source registers.
func (code Code) NotDecode() (dst, src word.Word, err error) {
	out, err := code.fields(fieldReg1, fieldReg2)
	if err != nil {
		return
	}

	dst, src = out[0], out[1]
	return
}

// TrapDecode decodes the TRAP vector.
func (code Code) TrapDecode() (vector CodeTrap, err error) {
	out, err := code.fields(fieldTrap)
	if err != nil {
		return
	}

	vector = CodeTrap(out[0].Unsigned())
	return
}

// String returns the assembly language representation of the instruction.
func (code Code) String() (out string) {
	op, err := code.Op()
	if err != nil {
		return fmt.Sprintf("?%v", code.Word)
	}

	defer func() {
		if err != nil {
			out = fmt.Sprintf(".fill b%v", code.Bits())
		}
	}()

	switch op {
	case OP_BR:
		var cond, offset word.Word
		cond, offset, err = code.PcOffsetDecode()
		if err != nil {
			return
		}
		if cond.Unsigned() == 0 {
			out = fmt.Sprintf("nop #%d", offset.Signed())
			return
		}
		var flags strings.Builder
		for n, name := range "nzp" {
			if set, _ := cond.Bit(n); set {
				flags.WriteRune(name)
			}
		}
		out = fmt.Sprintf("br%v #%d", flags.String(), offset.Signed())
	case OP_ADD, OP_AND:
		var dst, src, arg word.Word
		var immediate bool
		dst, src, immediate, arg, err = code.OperateDecode()
		if err != nil {
			return
		}
		if immediate {
			out = fmt.Sprintf("%v r%d, r%d, #%d", op, dst.Unsigned(), src.Unsigned(), arg.Signed())
		} else {
			out = fmt.Sprintf("%v r%d, r%d, r%d", op, dst.Unsigned(), src.Unsigned(), arg.Unsigned())
		}
	case OP_LD, OP_LDI, OP_STI, OP_LEA:
		var reg, offset word.Word
		reg, offset, err = code.PcOffsetDecode()
		if err != nil {
			return
		}
		out = fmt.Sprintf("%v r%d, #%d", op, reg.Unsigned(), offset.Signed())
	case OP_LDR, OP_STR:
		var reg, base, offset word.Word
		reg, base, offset, err = code.BaseOffsetDecode()
		if err != nil {
			return
		}
		out = fmt.Sprintf("%v r%d, r%d, #%d", op, reg.Unsigned(), base.Unsigned(), offset.Signed())
	case OP_NOT:
		var dst, src word.Word
		dst, src, err = code.NotDecode()
		if err != nil {
			return
		}
		out = fmt.Sprintf("not r%d, r%d", dst.Unsigned(), src.Unsigned())
	case OP_TRAP:
		var vector CodeTrap
		vector, err = code.TrapDecode()
		if err != nil {
			return
		}
		switch vector {
		case TRAP_OUT, TRAP_HALT:
			out = vector.String()
		default:
			out = fmt.Sprintf("trap x%02X", int(vector))
		}
	default:
		out = fmt.Sprintf(".fill x%04X", code.Unsigned())
	}

	return
}

// encoder concatenates instruction fields, keeping the first error.
type encoder struct {
	parts []word.Word
	err   error
}

func newEncoder(op CodeOp) (enc *encoder) {
	enc = &encoder{}
	return enc.unsigned(int(op), fieldOp.length)
}

func (enc *encoder) add(w word.Word, err error) *encoder {
	if enc.err == nil {
		enc.err = err
		enc.parts = append(enc.parts, w)
	}
	return enc
}

func (enc *encoder) unsigned(n, width int) *encoder {
	return enc.add(word.FromUnsignedN(n, width))
}

func (enc *encoder) signed(n, width int) *encoder {
	return enc.add(word.FromSignedN(n, width))
}

func (enc *encoder) reg(n int) *encoder {
	if n < 0 || n >= REGISTER_COUNT {
		return enc.add(word.Word{}, ErrRegister(n))
	}
	return enc.unsigned(n, 3)
}

func (enc *encoder) code() (code Code, err error) {
	if enc.err != nil {
		err = enc.err
		return
	}

	w, err := word.Join(enc.parts...)
	if err != nil {
		return
	}

	if w.Len() != word.WIDTH {
		err = word.ErrWidth(w.Len())
		return
	}

	code = Code{Word: w}
	return
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// MakeCodeBr creates a conditional branch on the N, Z and P flags.
func MakeCodeBr(n, z, p bool, offset int) (Code, error) {
	cond := boolBit(n)<<2 | boolBit(z)<<1 | boolBit(p)
	return newEncoder(OP_BR).unsigned(cond, 3).signed(offset, 9).code()
}

// MakeCodeAdd creates a register mode ADD.
func MakeCodeAdd(dst, src1, src2 int) (Code, error) {
	return newEncoder(OP_ADD).reg(dst).reg(src1).unsigned(0, 3).reg(src2).code()
}

// MakeCodeAddImm creates an immediate mode ADD.
func MakeCodeAddImm(dst, src int, imm int) (Code, error) {
	return newEncoder(OP_ADD).reg(dst).reg(src).unsigned(1, 1).signed(imm, 5).code()
}

// MakeCodeAnd creates a register mode AND.
func MakeCodeAnd(dst, src1, src2 int) (Code, error) {
	return newEncoder(OP_AND).reg(dst).reg(src1).unsigned(0, 3).reg(src2).code()
}

// MakeCodeAndImm creates an immediate mode AND.
func MakeCodeAndImm(dst, src int, imm int) (Code, error) {
	return newEncoder(OP_AND).reg(dst).reg(src).unsigned(1, 1).signed(imm, 5).code()
}

// MakeCodeLd creates a PC relative load.
func MakeCodeLd(dst int, offset int) (Code, error) {
	return newEncoder(OP_LD).reg(dst).signed(offset, 9).code()
}

// MakeCodeLdi creates a PC relative indirect load.
func MakeCodeLdi(dst int, offset int) (Code, error) {
	return newEncoder(OP_LDI).reg(dst).signed(offset, 9).code()
}

// MakeCodeSti creates a PC relative indirect store.
func MakeCodeSti(src int, offset int) (Code, error) {
	return newEncoder(OP_STI).reg(src).signed(offset, 9).code()
}

// MakeCodeLea creates a load of a PC relative address.
func MakeCodeLea(dst int, offset int) (Code, error) {
	return newEncoder(OP_LEA).reg(dst).signed(offset, 9).code()
}

// MakeCodeLdr creates a base register relative load.
func MakeCodeLdr(dst, base int, offset int) (Code, error) {
	return newEncoder(OP_LDR).reg(dst).reg(base).signed(offset, 6).code()
}

// MakeCodeStr creates a base register relative store.
func MakeCodeStr(src, base int, offset int) (Code, error) {
	return newEncoder(OP_STR).reg(src).reg(base).signed(offset, 6).code()
}

// MakeCodeNot creates a bitwise complement.
func MakeCodeNot(dst, src int) (Code, error) {
	return newEncoder(OP_NOT).reg(dst).reg(src).unsigned(0x3f, 6).code()
}

// MakeCodeTrap creates a TRAP to a system routine.
func MakeCodeTrap(vector CodeTrap) (Code, error) {
	return newEncoder(OP_TRAP).unsigned(0, 4).unsigned(int(vector), 8).code()
}
