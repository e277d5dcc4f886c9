package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/lc3sim/cpu"
)

var helloProgram = []string{
	"        lea r1, msg",
	"loop:   ldr r0, r1, #0",
	"        brz done",
	"        out",
	"        add r1, r1, #1",
	"        br loop",
	"done:   halt",
	"msg:    .fill 'H'",
	"        .fill 'i'",
	"        .fill '!'",
	"        .fill #0",
}

func assemble(t *testing.T, emu *Emulator, program []string) {
	assert := assert.New(t)

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	err = emu.Reset()
	assert.NoError(err)
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(&emu.Console, emu.Cpu.Console)
	assert.Equal(0, emu.Program.Size())
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("16", defines["WORD_WIDTH"])
	assert.Equal("50", defines["MEMORY_SIZE"])
	assert.Equal("0x25", defines["TRAP_HALT"])

	assemble(t, emu, []string{".fill $(MEMORY_SIZE - 1)", ".fill $(WORD_WIDTH)"})
	assert.Equal([]uint16{49, 16}, emu.Program.Binary())
}

func TestEmulatorHello(t *testing.T) {
	assert := assert.New(t)

	var output bytes.Buffer

	emu := NewEmulator()
	emu.Console.Output = &output

	assemble(t, emu, helloProgram)
	assert.Equal(11, emu.Program.Size())
	assert.Equal(1, emu.LineNo())
	assert.Equal("lea r1, #6", emu.Code().String())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(2, emu.LineNo())
	assert.Equal(1, emu.Address())

	err = emu.Run(0)
	assert.NoError(err)
	assert.Equal("Hi!", output.String())
	assert.Equal(19, emu.Cpu.Ticks)
	assert.Equal(8, emu.LineNo())

	// Reset reloads the program and clears the state.
	output.Reset()
	assert.NoError(emu.Reset())
	assert.Equal(0, emu.Cpu.Ticks)
	assert.Equal(1, emu.LineNo())
	assert.NoError(emu.Run(100))
	assert.Equal("Hi!", output.String())
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(t, emu, []string{"loop: br loop"})

	err := emu.Run(10)
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(10, emu.Cpu.Ticks)
}

func TestEmulatorRuntime(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(t, emu, []string{
		"add r1, r1, #1",
		"ldr r0, r7, #-8",
		"halt",
	})

	err := emu.Run(0)
	assert.ErrorIs(err, cpu.ErrAddress(0))

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(2, runtime.LineNo)
	}

	// Unimplemented operations are only fatal when strict.
	assemble(t, emu, []string{".fill xD000", "halt"})
	assert.NoError(emu.Run(0))

	assert.NoError(emu.Reset())
	emu.Cpu.Strict = true
	err = emu.Run(0)
	assert.ErrorIs(err, cpu.ErrOpcodeInvalid)
}

func TestEmulatorLoadImage(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.LoadImage([]uint16{
		0b0001000000100011, // add r0, r0, #3
		0xF025,             // halt
	})
	assert.NoError(err)
	assert.NoError(emu.Reset())
	assert.Equal(0, emu.LineNo())

	assert.NoError(emu.Run(0))
	r0, _ := emu.Cpu.Register(0)
	assert.Equal(3, r0.Unsigned())

	err = emu.LoadImage(make([]uint16, cpu.MEMORY_SIZE+1))
	assert.ErrorIs(err, cpu.ErrProgramSize)
}
