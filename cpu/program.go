package cpu

import (
	"iter"
)

// Opcode is a line of assembled code with its source location and generated
// instructions.
type Opcode struct {
	LineNo    int      // Source line number.
	Address   int      // Memory address of the first code.
	Words     []string // Source words.
	Codes     []Code   // Generated words.
	LinkLabel string   // Label to link into the last code.
	LinkPc    bool     // If set, link as a 9-bit PC offset, else as an address.
}

// Program is an assembled program.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode that generated the word at 'address'.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if address >= op.Address && address < op.Address+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  address - op.Address,
			}
			break
		}
	}

	return
}

// Size returns the number of memory words spanned by the program.
func (prog *Program) Size() (size int) {
	for _, op := range prog.Opcodes {
		size = max(size, op.Address+len(op.Codes))
	}

	return
}

// Binary returns the memory image of the program, from address 0.
func (prog *Program) Binary() (bins []uint16) {
	bins = make([]uint16, prog.Size())
	for address, code := range prog.Codes() {
		bins[address] = uint16(code.Unsigned())
	}

	return
}

// Codes iterates over the address and code of every generated word.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(address int, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Address+n, code) {
					return
				}
			}
		}
	}
}
