package main

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/lc3sim/emulator"
)

func TestRedirectLog(t *testing.T) {
	assert := assert.New(t)

	var outer, inner bytes.Buffer

	restore := redirectLog(&outer)
	defer restore()

	restoreInner := redirectLog(&inner)

	// Soft errors of a lenient cpu are logged.
	emu := emulator.NewEmulator()
	err := emu.Assemble(strings.NewReader(".fill xD000\nhalt"))
	assert.NoError(err)
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run(0))

	log.Print("after")
	restoreInner()
	log.Print("restored")

	assert.Contains(inner.String(), "invalid instruction")
	assert.Contains(inner.String(), "after")
	assert.NotContains(inner.String(), "restored")
	assert.Contains(outer.String(), "restored")
	assert.NotContains(outer.String(), "invalid instruction")
}
