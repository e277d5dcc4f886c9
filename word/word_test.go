package word

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBits(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		pattern  string
		length   int
		unsigned int
		signed   int
	}){
		{"0000000000010010", 16, 18, 18},
		{"1111111111111111", 16, 0xffff, -1},
		{"1010101010101010", 16, 0xaaaa, -21846},
		{"0000_0000_0010_0101", 16, 0x25, 0x25},
		{"001", 3, 1, 1},
		{"100", 3, 4, -4},
		{"10000", 5, 16, -16},
		{"1", 1, 1, -1},
	}

	for _, entry := range table {
		w, err := FromBits(entry.pattern)
		assert.NoError(err, entry.pattern)
		assert.Equal(entry.length, w.Len(), entry.pattern)
		assert.Equal(entry.unsigned, w.Unsigned(), entry.pattern)
		assert.Equal(entry.signed, w.Signed(), entry.pattern)
	}
}

func TestFromBits_Invalid(t *testing.T) {
	assert := assert.New(t)

	_, err := FromBits("")
	assert.ErrorIs(err, ErrRange)

	_, err = FromBits("00000000000000000")
	assert.ErrorIs(err, ErrRange)

	_, err = FromBits("0102")
	assert.ErrorAs(err, new(ErrPattern))

	assert.Panics(func() { MustBits("abc") })
}

func TestFromSigned(t *testing.T) {
	assert := assert.New(t)

	for n := -32768; n <= 32767; n++ {
		w, err := FromSigned(n)
		if !assert.NoError(err) {
			return
		}
		if n != w.Signed() {
			assert.Equal(n, w.Signed())
			return
		}
	}

	_, err := FromSigned(32768)
	assert.ErrorIs(err, ErrRange)

	_, err = FromSigned(-32769)
	assert.ErrorIs(err, ErrRange)

	var ev ErrValue
	assert.ErrorAs(err, &ev)
	assert.Equal(ErrValue{Value: -32769, Width: WIDTH}, ev)
}

func TestFromSignedN(t *testing.T) {
	assert := assert.New(t)

	w, err := FromSignedN(-16, 5)
	assert.NoError(err)
	assert.Equal("10000", w.Bits())

	w, err = FromSignedN(15, 5)
	assert.NoError(err)
	assert.Equal("01111", w.Bits())

	_, err = FromSignedN(16, 5)
	assert.ErrorIs(err, ErrRange)

	_, err = FromSignedN(0, 17)
	assert.ErrorIs(err, ErrRange)
}

func TestFromUnsignedN(t *testing.T) {
	assert := assert.New(t)

	w, err := FromUnsignedN(0x25, 8)
	assert.NoError(err)
	assert.Equal("00100101", w.Bits())

	_, err = FromUnsignedN(256, 8)
	assert.ErrorIs(err, ErrRange)

	_, err = FromUnsignedN(-1, 8)
	assert.ErrorIs(err, ErrRange)
}

func TestWrap(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(-1, Wrap(-1).Signed())
	assert.Equal(0xffff, Wrap(-1).Unsigned())
	assert.Equal(-32768, Wrap(32768).Signed())
	assert.Equal(0, Wrap(65536).Unsigned())
	assert.Equal(WIDTH, Wrap(7).Len())
}

func TestSlice_Identity(t *testing.T) {
	assert := assert.New(t)

	for n := range 0x10000 {
		w := FromUnsigned(uint16(n))
		s, err := w.Slice(0, WIDTH)
		if !assert.NoError(err) {
			return
		}
		if n != s.Unsigned() {
			assert.Equal(n, s.Unsigned())
			return
		}
	}
}

func TestSlice(t *testing.T) {
	assert := assert.New(t)

	// ADD r1, r3, #-16
	ir := MustBits("0001_001_011_1_10000")

	table := [](struct {
		start, length int
		unsigned      int
		signed        int
	}){
		{0, 4, 1, 1},
		{4, 3, 1, 1},
		{7, 3, 3, 3},
		{10, 1, 1, -1},
		{11, 5, 16, -16},
		{13, 3, 0, 0},
		{15, 1, 0, 0},
	}

	for _, entry := range table {
		s, err := ir.Slice(entry.start, entry.length)
		assert.NoError(err)
		assert.Equal(entry.length, s.Len())
		assert.Equal(entry.unsigned, s.Unsigned(), "%v+%v", entry.start, entry.length)
		assert.Equal(entry.signed, s.Signed(), "%v+%v", entry.start, entry.length)
	}
}

func TestSlice_Invalid(t *testing.T) {
	assert := assert.New(t)

	w := FromUnsigned(0x1234)

	_, err := w.Slice(12, 5)
	assert.ErrorIs(err, ErrRange)
	var es ErrSlice
	assert.ErrorAs(err, &es)
	assert.Equal(ErrSlice{Start: 12, Length: 5, Width: 16}, es)

	_, err = w.Slice(0, 0)
	assert.ErrorIs(err, ErrRange)

	_, err = w.Slice(-1, 2)
	assert.ErrorIs(err, ErrRange)

	sub, err := w.Slice(4, 8)
	assert.NoError(err)
	_, err = sub.Slice(4, 5)
	assert.ErrorIs(err, ErrRange)
}

func TestInvert(t *testing.T) {
	assert := assert.New(t)

	for n := range 0x10000 {
		w := FromUnsigned(uint16(n))
		orig := w
		w.Invert()
		if w.Unsigned() != 0xffff-n {
			assert.Equal(0xffff-n, w.Unsigned())
			return
		}
		w.Invert()
		if !w.Equal(orig) {
			assert.Equal(orig, w)
			return
		}
	}

	cc := MustBits("010")
	assert.Same(&cc, cc.Invert())
	assert.Equal("101", cc.Bits())
}

func TestConcat(t *testing.T) {
	assert := assert.New(t)

	ext, err := Fill(11, true)
	assert.NoError(err)

	imm := MustBits("10000")
	w, err := ext.Concat(imm)
	assert.NoError(err)
	assert.Equal(WIDTH, w.Len())
	assert.Equal(-16, w.Signed())

	_, err = w.Concat(MustBits("1"))
	assert.ErrorIs(err, ErrRange)

	w, err = Join(MustBits("1111"), MustBits("0000"), MustBits("00100101"))
	assert.NoError(err)
	assert.Equal("1111000000100101", w.Bits())
}

func TestReplace(t *testing.T) {
	assert := assert.New(t)

	w := MustBits("0000_100_000000000")
	err := w.Replace(7, MustBits("111111110"))
	assert.NoError(err)
	assert.Equal("0000100111111110", w.Bits())

	err = w.Replace(10, MustBits("1111111"))
	assert.ErrorIs(err, ErrRange)
	assert.Equal("0000100111111110", w.Bits())
}

func TestIncrement(t *testing.T) {
	assert := assert.New(t)

	w := FromUnsigned(41)
	w.Increment()
	assert.Equal(42, w.Unsigned())

	w = FromUnsigned(0xffff)
	w.Increment()
	assert.Equal(0, w.Unsigned())
	assert.Equal(WIDTH, w.Len())
}

func TestAnd(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []uint16{0, 1, 18, 0x5555, 0xaaaa, 0x8000, 0xffff} {
		w := FromUnsigned(n)

		same, err := w.And(w)
		assert.NoError(err)
		assert.True(same.Equal(w))

		inv := w
		inv.Invert()
		none, err := w.And(inv)
		assert.NoError(err)
		assert.Equal(0, none.Unsigned())
	}

	_, err := FromUnsigned(1).And(MustBits("1"))
	assert.ErrorIs(err, ErrRange)
}

func TestBit(t *testing.T) {
	assert := assert.New(t)

	cc := MustBits("001")
	for n, want := range []bool{false, false, true} {
		bit, err := cc.Bit(n)
		assert.NoError(err)
		assert.Equal(want, bit)
	}

	_, err := cc.Bit(3)
	assert.True(errors.Is(err, ErrRange))
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0000000000010010", FromUnsigned(18).String())
	assert.Equal("", Word{}.String())
}
