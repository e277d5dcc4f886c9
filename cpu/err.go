package cpu

import (
	"errors"

	"github.com/ezrec/lc3sim/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrChannelInvalid = errors.New(f("channel invalid"))

	// Instruction decode errors
	ErrOpcodeInvalid = errors.New(f("invalid instruction"))
	ErrTrapInvalid   = errors.New(f("invalid trap"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrConditionInvalid   = errors.New(f("branch condition invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrProgramSize        = errors.New(f("program exceeds memory"))
)

// ErrAddress is a memory address outside of [0, MEMORY_SIZE).
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address %d outside of memory [0, %d)", int(ea), MEMORY_SIZE)
}

// Is matches any ErrAddress.
func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

// ErrRegister is a register index outside of [0, REGISTER_COUNT).
type ErrRegister int

func (er ErrRegister) Error() string {
	return f("register %d outside of r0-r%d", int(er), REGISTER_COUNT-1)
}

func (er ErrRegister) Is(err error) (ok bool) {
	_, ok = err.(ErrRegister)
	return
}

// ErrOpcode tags an error with the instruction that caused it.
type ErrOpcode struct {
	Address int
	Code    Code
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode %02d: %v %v", eo.Address, eo.Code.Bits(), eo.Code.String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrLabelSyntax is a label name that is a register, or reads as a number.
type ErrLabelSyntax string

func (el ErrLabelSyntax) Error() string {
	return f("label %v is not a valid name", string(el))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOffsetRange is a label too far away for a PC offset field.
type ErrOffsetRange struct {
	Label  string
	Offset int
}

func (err ErrOffsetRange) Error() string {
	return f("label %v offset %d out of range", err.Label, err.Offset)
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
