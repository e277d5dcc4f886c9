package cpu

import (
	"github.com/ezrec/lc3sim/word"
)

const (
	MEMORY_SIZE    = 50 // Words of memory.
	REGISTER_COUNT = 8  // General purpose registers.
	CC_WIDTH       = 3  // Bits of condition code.
)

// Condition codes.
var (
	CC_NEGATIVE = word.MustBits("100")
	CC_ZERO     = word.MustBits("010")
	CC_POSITIVE = word.MustBits("001")
)

// State is the architectural state of the machine.
//
// Only the Cpu changes it; everything else reads copies through the
// accessors, or writes memory with LoadWord before execution.
type State struct {
	register [REGISTER_COUNT]word.Word
	memory   [MEMORY_SIZE]word.Word
	pc       word.Word
	ir       word.Word
	cc       word.Word
}

// NewState returns the power-on state.
func NewState() (st *State) {
	st = &State{}
	st.Reset()
	return
}

// Reset to the power-on state.
// - Registers r0-r7 hold 0-7.
// - Memory, PC and IR are zero.
// - CC is Z.
func (st *State) Reset() {
	for n := range st.register {
		st.register[n] = word.FromUnsigned(uint16(n))
	}
	for n := range st.memory {
		st.memory[n] = word.FromUnsigned(0)
	}
	st.pc = word.FromUnsigned(0)
	st.ir = word.FromUnsigned(0)
	st.cc = CC_ZERO
}

// LoadWord stores a full width word into memory.
func (st *State) LoadWord(address int, w word.Word) (err error) {
	if w.Len() != word.WIDTH {
		err = word.ErrWidth(w.Len())
		return
	}

	return st.store(address, w)
}

// Registers returns a copy of the register bank.
func (st *State) Registers() [REGISTER_COUNT]word.Word {
	return st.register
}

// Register returns a copy of register 'n'.
func (st *State) Register(n int) (w word.Word, err error) {
	if n < 0 || n >= REGISTER_COUNT {
		err = ErrRegister(n)
		return
	}

	w = st.register[n]
	return
}

// Memory returns a copy of memory.
func (st *State) Memory() [MEMORY_SIZE]word.Word {
	return st.memory
}

// Peek returns a copy of the memory word at 'address'.
func (st *State) Peek(address int) (w word.Word, err error) {
	return st.load(address)
}

// PC returns the program counter.
func (st *State) PC() word.Word {
	return st.pc
}

// IR returns the last fetched instruction.
func (st *State) IR() word.Word {
	return st.ir
}

// CC returns the condition code, N Z P from MSB to LSB.
func (st *State) CC() word.Word {
	return st.cc
}

func (st *State) load(address int) (w word.Word, err error) {
	if address < 0 || address >= MEMORY_SIZE {
		err = ErrAddress(address)
		return
	}

	w = st.memory[address]
	return
}

func (st *State) store(address int, w word.Word) (err error) {
	if address < 0 || address >= MEMORY_SIZE {
		err = ErrAddress(address)
		return
	}

	st.memory[address] = w
	return
}

// reg returns the register selected by a register field.
func (st *State) reg(index word.Word) (w word.Word, err error) {
	return st.Register(index.Unsigned())
}

// setReg sets the register selected by a register field.
func (st *State) setReg(index word.Word, w word.Word) (err error) {
	n := index.Unsigned()
	if n >= REGISTER_COUNT {
		err = ErrRegister(n)
		return
	}

	st.register[n] = w
	return
}

// setConditionalCode sets CC from the sign of a result.
func (st *State) setConditionalCode(w word.Word) {
	switch value := w.Signed(); {
	case value > 0:
		st.cc = CC_POSITIVE
	case value < 0:
		st.cc = CC_NEGATIVE
	default:
		st.cc = CC_ZERO
	}
}
