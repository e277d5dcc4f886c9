// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	goio "io"
	"iter"
	"maps"

	"github.com/ezrec/lc3sim/cpu"
	"github.com/ezrec/lc3sim/internal"
	"github.com/ezrec/lc3sim/io"
	"github.com/ezrec/lc3sim/word"
)

const (
	WORD_WIDTH = word.WIDTH // Bits per word.
)

var _emulator_defines = map[string]string{
	"WORD_WIDTH": fmt.Sprintf("%v", WORD_WIDTH),
}

// Emulator state. CPU + console + program ROM.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Console io.Console // Console output channel.
	Rom     io.Rom     // Program image loaded at reset.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Cpu.Console = &emu.Console

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble parses assembly source into the emulator's program, with all
// of the emulator defines predefined.
func (emu *Emulator) Assemble(input goio.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LoadImage replaces the program with a raw memory image.
// The image has no source lines.
func (emu *Emulator) LoadImage(image []uint16) (err error) {
	if len(image) > cpu.MEMORY_SIZE {
		err = cpu.ErrProgramSize
		return
	}

	prog := &cpu.Program{}
	for address, data := range image {
		prog.Opcodes = append(prog.Opcodes, cpu.Opcode{
			Address: address,
			Codes:   []cpu.Code{{Word: word.FromUnsigned(data)}},
		})
	}

	emu.Program = prog
	return
}

// Reset the cpu, and load the program from address 0.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Rom.Data = emu.Program.Binary()
	if len(emu.Rom.Data) > cpu.MEMORY_SIZE {
		err = cpu.ErrProgramSize
		return
	}

	emu.Cpu.Reset()

	address := 0
	for data := range emu.Rom.Receive() {
		err = emu.Cpu.LoadWord(address, word.FromUnsigned(data))
		if err != nil {
			return
		}
		address++
	}

	return
}

// Address returns the address of the next instruction.
func (emu *Emulator) Address() int {
	return emu.Cpu.PC().Unsigned()
}

// Code returns the next instruction code.
func (emu *Emulator) Code() cpu.Code {
	w, err := emu.Cpu.Peek(emu.Address())
	if err != nil {
		return cpu.Code{}
	}

	return cpu.Code{Word: w}
}

// LineNo returns the source line number of the next instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Address())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set once the program halts.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	done, err = emu.Cpu.Tick()

	return
}

// Run ticks until the program halts.
// If limit is positive, fails with ErrTickLimit after that many ticks.
func (emu *Emulator) Run(limit int) (err error) {
	for ticks := 0; limit <= 0 || ticks < limit; ticks++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = ErrTickLimit
	return
}
