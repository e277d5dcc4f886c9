package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/encoding/charmap"
)

func TestConsole_Send(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	con := &Console{Output: output}

	for _, ch := range "Hi!" {
		assert.NoError(con.Send(uint16(ch)))
	}
	assert.Equal("Hi!", output.String())
}

func TestConsole_Send_Latin1(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	con := &Console{Output: output}

	// 0xe9 is 'é' in ISO 8859-1; upper bits are ignored.
	assert.NoError(con.Send(0xe9))
	assert.NoError(con.Send(0x1241))
	assert.Equal("éA", output.String())
}

func TestConsole_Send_Charset(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	con := &Console{Output: output, Charset: charmap.CodePage437}

	assert.NoError(con.Send(0x9c))
	assert.Equal("£", output.String())

	con.Rewind()
	con.Charset = nil
	assert.NoError(con.Send(0xa3))
	assert.Equal("££", output.String())
}

func TestConsole_Closed(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	assert.ErrorIs(con.Send('A'), ErrChannelClosed)

	count := 0
	for range con.Receive() {
		count++
	}
	assert.Equal(0, count)
}
