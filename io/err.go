package io

import (
	"errors"

	"github.com/ezrec/lc3sim/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull   = errors.New(f("channel full"))
	ErrChannelClosed = errors.New(f("channel closed"))
)

// ErrImageWord is an image line that is not a 16 digit binary word.
type ErrImageWord string

func (err ErrImageWord) Error() string {
	return f("'%v' is not a 16 bit binary word", string(err))
}
