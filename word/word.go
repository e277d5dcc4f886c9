// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package word implements the fixed width bit vector that every register,
// memory cell and instruction field of the machine is built from.
//
// Bits are indexed MSB first: bit 0 is the most significant bit. A full
// machine word is WIDTH bits; slices of a word keep their own width, and
// interpret their sign with it.
package word

import (
	"strings"
)

const (
	WIDTH = 16 // Width of a full machine word.
)

// Word is a bit vector of 1 to WIDTH bits.
//
// Words are values. Assigning a Word copies it, so a register or memory cell
// never shares storage with another.
type Word struct {
	value  uint16 // Bits, right aligned.
	length int    // Number of bits.
}

// mask returns the low 'length' bits set.
func mask(length int) uint16 {
	return uint16((uint32(1) << length) - 1)
}

func checkWidth(length int) (err error) {
	if length <= 0 || length > WIDTH {
		err = ErrWidth(length)
	}
	return
}

// FromBits creates a word from a pattern of '0' and '1' characters, MSB
// first. Underscores are ignored and may be used as separators.
func FromBits(pattern string) (w Word, err error) {
	bits := strings.ReplaceAll(pattern, "_", "")

	err = checkWidth(len(bits))
	if err != nil {
		return
	}

	for _, ch := range bits {
		w.value <<= 1
		switch ch {
		case '0':
		case '1':
			w.value |= 1
		default:
			err = ErrPattern(pattern)
			w = Word{}
			return
		}
	}
	w.length = len(bits)

	return
}

// MustBits is FromBits, but panics on a malformed pattern.
func MustBits(pattern string) Word {
	w, err := FromBits(pattern)
	if err != nil {
		panic(err)
	}
	return w
}

// FromUnsigned creates a full width word from an unsigned value.
func FromUnsigned(n uint16) Word {
	return Word{value: n, length: WIDTH}
}

// FromUnsignedN creates a 'width' bit word from an unsigned value.
func FromUnsignedN(n int, width int) (w Word, err error) {
	err = checkWidth(width)
	if err != nil {
		return
	}

	if n < 0 || n > int(mask(width)) {
		err = ErrValue{Value: n, Width: width}
		return
	}

	w = Word{value: uint16(n), length: width}
	return
}

// FromSigned creates a full width word holding the two's complement
// encoding of n, which must be in -32768..32767.
func FromSigned(n int) (w Word, err error) {
	return FromSignedN(n, WIDTH)
}

// FromSignedN creates a 'width' bit word holding the two's complement
// encoding of n.
func FromSignedN(n int, width int) (w Word, err error) {
	err = checkWidth(width)
	if err != nil {
		return
	}

	lo := -(1 << (width - 1))
	hi := (1 << (width - 1)) - 1
	if n < lo || n > hi {
		err = ErrValue{Value: n, Width: width}
		return
	}

	w = Word{value: uint16(n) & mask(width), length: width}
	return
}

// Wrap creates a full width word from the low WIDTH bits of n.
func Wrap(n int) Word {
	return Word{value: uint16(n), length: WIDTH}
}

// Fill creates a 'length' bit word with every bit set to 'bit'.
func Fill(length int, bit bool) (w Word, err error) {
	err = checkWidth(length)
	if err != nil {
		return
	}

	w.length = length
	if bit {
		w.value = mask(length)
	}

	return
}

// Join concatenates words, first word in the most significant bits.
func Join(parts ...Word) (w Word, err error) {
	for n, part := range parts {
		if n == 0 {
			w = part
			continue
		}
		w, err = w.Concat(part)
		if err != nil {
			return
		}
	}

	return
}

// Len returns the number of bits in the word.
func (w Word) Len() int {
	return w.length
}

// Unsigned returns the binary value of the word.
func (w Word) Unsigned() int {
	return int(w.value)
}

// Signed returns the two's complement value of the word, using the word's
// own width for the sign bit.
func (w Word) Signed() int {
	if w.length == 0 {
		return 0
	}

	if (w.value>>(w.length-1))&1 == 1 {
		return int(w.value) - (1 << w.length)
	}

	return int(w.value)
}

// Slice returns 'length' bits starting at bit 'start'.
func (w Word) Slice(start, length int) (out Word, err error) {
	if start < 0 || length <= 0 || start+length > w.length {
		err = ErrSlice{Start: start, Length: length, Width: w.length}
		return
	}

	shift := w.length - start - length
	out = Word{value: (w.value >> shift) & mask(length), length: length}
	return
}

// Bit returns bit 'index'.
func (w Word) Bit(index int) (bit bool, err error) {
	one, err := w.Slice(index, 1)
	if err != nil {
		return
	}

	bit = one.value == 1
	return
}

// Invert flips every bit of the word in place.
func (w *Word) Invert() *Word {
	w.value = ^w.value & mask(w.length)
	return w
}

// Concat returns the bits of w followed by the bits of other.
func (w Word) Concat(other Word) (out Word, err error) {
	total := w.length + other.length
	if total > WIDTH {
		err = ErrWidth(total)
		return
	}

	out = Word{value: (w.value << other.length) | other.value, length: total}
	return
}

// Replace overwrites the bits starting at 'start' with other.
func (w *Word) Replace(start int, other Word) (err error) {
	if start < 0 || other.length <= 0 || start+other.length > w.length {
		err = ErrSlice{Start: start, Length: other.length, Width: w.length}
		return
	}

	shift := w.length - start - other.length
	bits := mask(other.length) << shift
	w.value = (w.value &^ bits) | (other.value << shift)

	return
}

// Increment adds one to the unsigned value in place, wrapping at the word's
// width.
func (w *Word) Increment() {
	w.value = (w.value + 1) & mask(w.length)
}

// And returns the bitwise AND of two words of equal width.
func (w Word) And(other Word) (out Word, err error) {
	if w.length != other.length {
		err = ErrWidth(other.length)
		return
	}

	out = Word{value: w.value & other.value, length: w.length}
	return
}

// Equal returns true if both words have the same width and bits.
func (w Word) Equal(other Word) bool {
	return w == other
}

// Bits returns the bit pattern, MSB first.
func (w Word) Bits() string {
	var sb strings.Builder

	for n := w.length - 1; n >= 0; n-- {
		if (w.value>>n)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// String returns the bit pattern of the word.
func (w Word) String() string {
	return w.Bits()
}
