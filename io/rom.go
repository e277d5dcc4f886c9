package io

import (
	"iter"
)

// Rom is a read-only program image, in address order.
type Rom struct {
	Data []uint16
}

var _ Channel = (*Rom)(nil)

// Rewind is a no-op; every Receive starts from the first word.
func (rc *Rom) Rewind() {
}

// Receive yields the image words in order.
func (rc *Rom) Receive() iter.Seq[uint16] {
	return func(yield func(value uint16) bool) {
		for _, data := range rc.Data {
			if !yield(data) {
				return
			}
		}
	}
}

// Send always fails; the image is read-only.
func (rc *Rom) Send(value uint16) error {
	return ErrChannelFull
}
