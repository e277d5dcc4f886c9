package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustCode(code Code, err error) Code {
	if err != nil {
		panic(err)
	}
	return code
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Address: 0, Words: []string{"ld", "r0", "#2"},
				Codes: []Code{mustCode(MakeCodeLd(0, 2))}},
			{LineNo: 2, Address: 1, Words: []string{".blkw", "2"},
				Codes: []Code{{}, {}}},
			{LineNo: 4, Address: 3, Words: []string{"halt"},
				Codes: []Code{mustCode(MakeCodeTrap(TRAP_HALT))}},
		},
	}

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.Opcode.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(3)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.Opcode.LineNo)

	dbg = prog.Debug(4)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{Address: 0, Codes: []Code{mustCode(MakeCodeLd(4, 3))}},
			{Address: 1, Codes: []Code{mustCode(MakeCodeTrap(TRAP_HALT))}},
		},
	}

	assert.Equal(2, prog.Size())
	assert.Equal([]uint16{0b0010100000000011, 0xF025}, prog.Binary())

	var addresses []int
	for address := range prog.Codes() {
		addresses = append(addresses, address)
		break
	}
	assert.Equal([]int{0}, addresses)

	empty := &Program{}
	assert.Equal(0, empty.Size())
	assert.Empty(empty.Binary())
}
