package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/lc3sim/io"
	"github.com/ezrec/lc3sim/translate"
	"github.com/ezrec/lc3sim/word"
)

// Channel is an I/O channel interface.
type Channel io.Channel

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%v", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
	"TRAP_OUT":       fmt.Sprintf("0x%x", int(TRAP_OUT)),
	"TRAP_HALT":      fmt.Sprintf("0x%x", int(TRAP_HALT)),
}

// Cpu is the fetch-decode-execute engine, and the sole owner of its State.
type Cpu struct {
	Verbose bool    // Set to enable verbose logging.
	Strict  bool    // Set to make invalid instructions and traps fatal.
	Console Channel // Output of the OUT trap.

	Ticks int // Instructions executed since reset.

	State
}

// NewCpu creates a new CPU in its power-on state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.State.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Restores the power-on registers, memory, PC, IR and CC.
// - Zeros the tick counter.
// - Rewinds the console.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.State.Reset()
	cpu.Ticks = 0

	if cpu.Console != nil {
		cpu.Console.Rewind()
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("PC %v   IR %v   CC %v\n", cpu.pc, cpu.ir, cpu.cc)

	for n, reg := range cpu.register {
		text += fmt.Sprintf("R%d %v %6d", n, reg, reg.Signed())
		if n%3 == 2 || n == len(cpu.register)-1 {
			text += "\n"
		} else {
			text += "   "
		}
	}

	for n, data := range cpu.memory {
		text += fmt.Sprintf("%3d %v %6d", n, data, data.Signed())
		if n%3 == 2 || n == len(cpu.memory)-1 {
			text += "\n"
		} else {
			text += "   "
		}
	}

	return
}

// Fetch loads the instruction at PC into IR, and advances PC.
func (cpu *Cpu) Fetch() (code Code, err error) {
	w, err := cpu.load(cpu.pc.Unsigned())
	if err != nil {
		return
	}

	cpu.ir = w
	cpu.pc.Increment()

	code = Code{Word: w}
	return
}

// Tick executes a single instruction cycle.
// halted is set when the instruction was a HALT trap.
func (cpu *Cpu) Tick() (halted bool, err error) {
	address := cpu.pc.Unsigned()

	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %02d: %v", address, code)
	}

	halted, err = cpu.dispatch(address, code)
	if err != nil {
		err = errors.Join(ErrOpcode{Address: address, Code: code}, err)
		return
	}

	cpu.Ticks++

	return
}

// Execute runs from the current PC until a HALT trap, or an error.
func (cpu *Cpu) Execute() (err error) {
	for {
		var halted bool
		halted, err = cpu.Tick()
		if err != nil || halted {
			return
		}
	}
}

// dispatch executes a fetched instruction.
func (cpu *Cpu) dispatch(address int, code Code) (halted bool, err error) {
	op, err := code.Op()
	if err != nil {
		return
	}

	switch op {
	case OP_BR:
		err = cpu.executeBr(code)
	case OP_ADD:
		err = cpu.executeAdd(code)
	case OP_LD:
		err = cpu.executeLd(code)
	case OP_AND:
		err = cpu.executeAnd(code)
	case OP_LDR:
		err = cpu.executeLdr(code)
	case OP_STR:
		err = cpu.executeStr(code)
	case OP_NOT:
		err = cpu.executeNot(code)
	case OP_LDI:
		err = cpu.executeLdi(code)
	case OP_STI:
		err = cpu.executeSti(code)
	case OP_LEA:
		err = cpu.executeLea(code)
	case OP_TRAP:
		halted, err = cpu.executeTrap(address, code)
	default:
		err = cpu.softError(address, code, ErrOpcodeInvalid)
	}

	return
}

// softError logs a bad instruction or trap and continues, unless Strict.
func (cpu *Cpu) softError(address int, code Code, err error) error {
	if cpu.Strict {
		return err
	}

	translate.Logf("cpu: %02d: %v: %v", address, err, code.Bits())

	return nil
}

// pcRelative returns PC plus a signed offset.
func (cpu *Cpu) pcRelative(offset word.Word) int {
	return cpu.pc.Unsigned() + offset.Signed()
}

// executeBr branches if any flag set in the condition is also set in CC.
func (cpu *Cpu) executeBr(code Code) (err error) {
	cond, offset, err := code.PcOffsetDecode()
	if err != nil {
		return
	}

	common, err := cond.And(cpu.cc)
	if err != nil {
		return
	}

	if common.Unsigned() != 0 {
		cpu.pc = word.Wrap(cpu.pcRelative(offset))
	}

	return
}

// executeAdd adds SR1 to SR2 or the immediate, into DR.
func (cpu *Cpu) executeAdd(code Code) (err error) {
	dst, src, immediate, arg, err := code.OperateDecode()
	if err != nil {
		return
	}

	a, err := cpu.reg(src)
	if err != nil {
		return
	}

	b := arg.Signed()
	if !immediate {
		var rb word.Word
		rb, err = cpu.reg(arg)
		if err != nil {
			return
		}
		b = rb.Signed()
	}

	result := word.Wrap(a.Signed() + b)

	err = cpu.setReg(dst, result)
	if err != nil {
		return
	}

	cpu.setConditionalCode(result)
	return
}

// executeAnd ands SR1 with SR2 or the sign extended immediate, into DR.
func (cpu *Cpu) executeAnd(code Code) (err error) {
	dst, src, immediate, arg, err := code.OperateDecode()
	if err != nil {
		return
	}

	a, err := cpu.reg(src)
	if err != nil {
		return
	}

	var b word.Word
	if immediate {
		b, err = signExtend(arg)
	} else {
		b, err = cpu.reg(arg)
	}
	if err != nil {
		return
	}

	result, err := a.And(b)
	if err != nil {
		return
	}

	err = cpu.setReg(dst, result)
	if err != nil {
		return
	}

	cpu.setConditionalCode(result)
	return
}

// signExtend widens a field to a full word, filling with its sign bit.
func signExtend(field word.Word) (w word.Word, err error) {
	if field.Len() == word.WIDTH {
		w = field
		return
	}

	sign, err := field.Bit(0)
	if err != nil {
		return
	}

	ext, err := word.Fill(word.WIDTH-field.Len(), sign)
	if err != nil {
		return
	}

	return ext.Concat(field)
}

// executeLd loads DR from a PC relative address.
func (cpu *Cpu) executeLd(code Code) (err error) {
	dst, offset, err := code.PcOffsetDecode()
	if err != nil {
		return
	}

	value, err := cpu.load(cpu.pcRelative(offset))
	if err != nil {
		return
	}

	err = cpu.setReg(dst, value)
	if err != nil {
		return
	}

	cpu.setConditionalCode(value)
	return
}

// executeLdi loads DR through a pointer at a PC relative address.
func (cpu *Cpu) executeLdi(code Code) (err error) {
	dst, offset, err := code.PcOffsetDecode()
	if err != nil {
		return
	}

	pointer, err := cpu.load(cpu.pcRelative(offset))
	if err != nil {
		return
	}

	value, err := cpu.load(pointer.Unsigned())
	if err != nil {
		return
	}

	err = cpu.setReg(dst, value)
	if err != nil {
		return
	}

	cpu.setConditionalCode(value)
	return
}

// executeSti stores SR through a pointer at a PC relative address.
func (cpu *Cpu) executeSti(code Code) (err error) {
	src, offset, err := code.PcOffsetDecode()
	if err != nil {
		return
	}

	pointer, err := cpu.load(cpu.pcRelative(offset))
	if err != nil {
		return
	}

	value, err := cpu.reg(src)
	if err != nil {
		return
	}

	return cpu.store(pointer.Unsigned(), value)
}

// executeLea loads DR with a PC relative address.
func (cpu *Cpu) executeLea(code Code) (err error) {
	dst, offset, err := code.PcOffsetDecode()
	if err != nil {
		return
	}

	address := word.Wrap(cpu.pcRelative(offset))

	err = cpu.setReg(dst, address)
	if err != nil {
		return
	}

	cpu.setConditionalCode(address)
	return
}

// baseRelative returns BaseR plus a signed offset.
func (cpu *Cpu) baseRelative(base, offset word.Word) (address int, err error) {
	bw, err := cpu.reg(base)
	if err != nil {
		return
	}

	address = bw.Signed() + offset.Signed()
	return
}

// executeLdr loads DR from a base register relative address.
func (cpu *Cpu) executeLdr(code Code) (err error) {
	dst, base, offset, err := code.BaseOffsetDecode()
	if err != nil {
		return
	}

	address, err := cpu.baseRelative(base, offset)
	if err != nil {
		return
	}

	value, err := cpu.load(address)
	if err != nil {
		return
	}

	err = cpu.setReg(dst, value)
	if err != nil {
		return
	}

	cpu.setConditionalCode(value)
	return
}

// executeStr stores SR to a base register relative address.
func (cpu *Cpu) executeStr(code Code) (err error) {
	src, base, offset, err := code.BaseOffsetDecode()
	if err != nil {
		return
	}

	address, err := cpu.baseRelative(base, offset)
	if err != nil {
		return
	}

	value, err := cpu.reg(src)
	if err != nil {
		return
	}

	return cpu.store(address, value)
}

// executeNot sets DR to the complement of SR.
func (cpu *Cpu) executeNot(code Code) (err error) {
	dst, src, err := code.NotDecode()
	if err != nil {
		return
	}

	value, err := cpu.reg(src)
	if err != nil {
		return
	}
	value.Invert()

	err = cpu.setReg(dst, value)
	if err != nil {
		return
	}

	cpu.setConditionalCode(value)
	return
}

// executeTrap runs the system routine selected by the trap vector.
func (cpu *Cpu) executeTrap(address int, code Code) (halted bool, err error) {
	vector, err := code.TrapDecode()
	if err != nil {
		return
	}

	switch vector {
	case TRAP_OUT:
		if cpu.Console == nil {
			err = ErrChannelInvalid
			return
		}
		r0 := cpu.register[0]
		err = cpu.Console.Send(uint16(r0.Unsigned()))
	case TRAP_HALT:
		if cpu.Verbose {
			log.Printf("cpu: %02d: halt", address)
		}
		halted = true
	default:
		err = cpu.softError(address, code, ErrTrapInvalid)
	}

	return
}
