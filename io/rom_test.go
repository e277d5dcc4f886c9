package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRom_Receive(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{
		Data: []uint16{0x2803, 0x0000, 0xf025},
	}

	var words []uint16
	for word := range rom.Receive() {
		words = append(words, word)
	}
	assert.Equal(rom.Data, words)

	rom.Rewind()
	words = words[:0]
	for word := range rom.Receive() {
		words = append(words, word)
		break
	}
	assert.Equal([]uint16{0x2803}, words)
}

func TestRom_Send(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	assert.ErrorIs(rom.Send(1), ErrChannelFull)
}
