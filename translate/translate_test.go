package translate

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("label loop missing", From("label %v missing", "loop"))
	assert.Equal("plain", From("plain"))
}

func TestLogf(t *testing.T) {
	assert := assert.New(t)

	var buff bytes.Buffer
	previous := log.Writer()
	log.SetOutput(&buff)
	defer log.SetOutput(previous)

	Logf("cpu: %v: %v", "invalid trap", "1111000000100011")

	assert.Contains(buff.String(), "cpu: invalid trap: 1111000000100011\n")
}
