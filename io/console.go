package io

import (
	"io"
	"iter"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Console is the character output device of the OUT trap.
// Each word sent is reduced to its low 8 bits, read as a code point in
// Charset, and written to Output as UTF-8.
type Console struct {
	Output  io.Writer         // Terminal output.
	Charset encoding.Encoding // Character set of the machine, ISO 8859-1 if nil.

	decoder *encoding.Decoder
}

var _ Channel = (*Console)(nil)

// Rewind drops the cached character set decoder.
func (cc *Console) Rewind() {
	cc.decoder = nil
}

// Receive yields nothing; the console has no keyboard.
func (cc *Console) Receive() iter.Seq[uint16] {
	return func(yield func(value uint16) bool) {}
}

// Send writes one character to the output.
func (cc *Console) Send(value uint16) (err error) {
	if cc.Output == nil {
		err = ErrChannelClosed
		return
	}

	if cc.decoder == nil {
		charset := cc.Charset
		if charset == nil {
			charset = charmap.ISO8859_1
		}
		cc.decoder = charset.NewDecoder()
	}

	text, err := cc.decoder.Bytes([]byte{byte(value & 0xff)})
	if err != nil {
		return
	}

	_, err = cc.Output.Write(text)
	return
}
