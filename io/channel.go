// Package io provides the I/O channels of the lc3sim machine.
// It includes the console used by the OUT trap (Console), the program image
// channel used to load memory (Rom), and the text image file format.
package io

import (
	"iter"
)

// Channel defines the interface for all I/O channels in the lc3sim system.
// Channels move whole 16-bit words.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields words from the channel.
	Receive() iter.Seq[uint16]
	// Send writes a single word to the channel.
	Send(value uint16) error
}
