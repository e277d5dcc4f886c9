package word

import (
	"errors"

	"github.com/ezrec/lc3sim/translate"
)

var f = translate.From

var (
	// ErrRange is the root of every width or value violation.
	ErrRange = errors.New(f("bit range"))
)

// ErrWidth is a word width outside of 1..WIDTH bits.
type ErrWidth int

func (err ErrWidth) Error() string {
	return f("width %d outside of 1..%d bits", int(err), WIDTH)
}

func (err ErrWidth) Unwrap() error {
	return ErrRange
}

// ErrSlice is a sub-range that does not fit in its parent word.
type ErrSlice struct {
	Start  int // First bit, MSB first.
	Length int // Number of bits.
	Width  int // Width of the parent word.
}

func (err ErrSlice) Error() string {
	return f("bits %d+%d outside of %d bit word", err.Start, err.Length, err.Width)
}

func (err ErrSlice) Unwrap() error {
	return ErrRange
}

// ErrValue is an integer that cannot be encoded in the requested width.
type ErrValue struct {
	Value int
	Width int
}

func (err ErrValue) Error() string {
	return f("value %d does not fit in %d bits", err.Value, err.Width)
}

func (err ErrValue) Unwrap() error {
	return ErrRange
}

// ErrPattern is a bit pattern with characters other than '0', '1' or '_'.
type ErrPattern string

func (err ErrPattern) Error() string {
	return f("'%v' is not a bit pattern", string(err))
}
