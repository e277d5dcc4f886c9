package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadImage(t *testing.T) {
	assert := assert.New(t)

	text := strings.Join([]string{
		"; LD r4, value",
		"0010_100_000000011",
		"",
		"0000000000000000   # padding",
		"1111 0000 0010 0101 ; HALT",
		"0000000000010010",
	}, "\n")

	data, err := ReadImage(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal([]uint16{0x2803, 0x0000, 0xf025, 0x0012}, data)
}

func TestReadImage_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		text string
		word string
	}){
		{"short", "0000\n", "0000"},
		{"long", "00000000000000000\n", "00000000000000000"},
		{"digits", "0000000000000002\n", "0000000000000002"},
	}

	for _, entry := range table {
		_, err := ReadImage(strings.NewReader(entry.text))
		assert.ErrorIs(err, ErrImageWord(entry.word), entry.name)
		assert.Contains(err.Error(), "image line 1", entry.name)
	}
}

func TestWriteImage(t *testing.T) {
	assert := assert.New(t)

	data := []uint16{0x2803, 0x0000, 0xf025}

	output := &bytes.Buffer{}
	assert.NoError(WriteImage(output, data))
	assert.Equal("0010100000000011 ; 00\n0000000000000000 ; 01\n1111000000100101 ; 02\n", output.String())

	again, err := ReadImage(output)
	assert.NoError(err)
	assert.Equal(data, again)
}
