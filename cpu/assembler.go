// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/lc3sim/word"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the lc3sim system.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register numbers.
var regMap = map[string]int{
	"r0": 0,
	"r1": 1,
	"r2": 2,
	"r3": 3,
	"r4": 4,
	"r5": 5,
	"r6": 6,
	"r7": 7,
}

var labelRegexp = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// register returns the register number of a word.
func (asm *Assembler) register(word string) (n int, err error) {
	n, ok := regMap[strings.ToLower(word)]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// isLabel returns true if the word can be a label.
// Registers and words that read as numbers (x5, b10) are not labels.
func (asm *Assembler) isLabel(word string) bool {
	_, is_reg := regMap[strings.ToLower(word)]
	if is_reg || !labelRegexp.MatchString(word) {
		return false
	}
	_, err := asm.valueOf(word)
	return err != nil
}

// valueOf returns the value of a simple word.
// Accepts #decimal, xHEX, bBINARY, and Go integer literals.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	text := word
	base := 0
	switch {
	case strings.HasPrefix(text, "#"):
		text, base = text[1:], 10
	case len(text) > 1 && (text[0] == 'x' || text[0] == 'X'):
		text, base = text[1:], 16
	case len(text) > 1 && (text[0] == 'b' || text[0] == 'B'):
		text, base = text[1:], 2
	}

	v64, err := strconv.ParseInt(text, base, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// pcOffset returns a PC offset value, or the label to link it to.
func (asm *Assembler) pcOffset(word string) (offset int, label string, err error) {
	offset, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if asm.isLabel(word) {
		err = nil
		label = word
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var equ int
		equ, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(equ)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	// Operands may be separated by commas.
	line = strings.ReplaceAll(line, ",", " ")

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if len(words) > 0 && words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !asm.isLabel(label) {
			err = ErrLabelSyntax(label)
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique per expansion site.
		local := fmt.Sprintf("%v_%v_", name, lineno)

		for n, line := range macro.Lines {
			macro_lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, macro_lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: macro_lineno, Err: err}
				err = ErrSyntax{LineNo: macro_lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, macro_lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: macro_lineno, Err: err}
				err = ErrSyntax{LineNo: macro_lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddress gets the address of the next generated word.
func (asm *Assembler) currentAddress() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Address + len(last.Codes)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	if asm.currentAddress() > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		address, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}

		linked := &op.Codes[len(op.Codes)-1]
		if !op.LinkPc {
			linked.Word = word.FromUnsigned(uint16(address))
			continue
		}

		// PC has already advanced past the instruction.
		offset := address - (op.Address + len(op.Codes))
		var field word.Word
		field, err = word.FromSignedN(offset, fieldOffset9.length)
		if err != nil {
			err = ErrOffsetRange{Label: label, Offset: offset}
			return
		}
		err = linked.Replace(fieldOffset9.start, field)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// argCount checks the number of operands.
func argCount(args []string, want int) (err error) {
	switch {
	case len(args) < want:
		err = ErrOpcodeValueMissing
	case len(args) > want:
		err = ErrOpcodeExtraArgs
	}
	return
}

// branchFlags decodes the condition suffix of a br mnemonic.
// An empty suffix branches always.
func branchFlags(flags string) (n, z, p bool, err error) {
	if len(flags) == 0 {
		n, z, p = true, true, true
		return
	}

	for _, ch := range flags {
		var flag *bool
		switch ch {
		case 'n':
			flag = &n
		case 'z':
			flag = &z
		case 'p':
			flag = &p
		default:
			err = ErrConditionInvalid
			return
		}
		if *flag {
			err = ErrConditionInvalid
			return
		}
		*flag = true
	}

	return
}

// pcOffsetMap maps PC relative mnemonics to their encoders.
var pcOffsetMap = map[string](func(reg int, offset int) (Code, error)){
	"ld":  MakeCodeLd,
	"ldi": MakeCodeLdi,
	"sti": MakeCodeSti,
	"lea": MakeCodeLea,
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string
	var link_pc bool

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Address: asm.currentAddress(), Words: initial_words, Codes: codes, LinkLabel: label, LinkPc: link_pc}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	// Alternate syntax substitutions
	switch mnemonic {
	case "halt":
		// halt => trap x25
		mnemonic = "trap"
		args = append([]string{fmt.Sprintf("%v", int(TRAP_HALT))}, args...)
	case "out":
		// out => trap x21
		mnemonic = "trap"
		args = append([]string{fmt.Sprintf("%v", int(TRAP_OUT))}, args...)
	}

	var code Code

	switch {
	case mnemonic == "add" || mnemonic == "and":
		err = argCount(args, 3)
		if err != nil {
			return
		}
		var dst, src, src2, imm int
		dst, err = asm.register(args[0])
		if err != nil {
			return
		}
		src, err = asm.register(args[1])
		if err != nil {
			return
		}
		src2, err = asm.register(args[2])
		if err == nil {
			if mnemonic == "add" {
				code, err = MakeCodeAdd(dst, src, src2)
			} else {
				code, err = MakeCodeAnd(dst, src, src2)
			}
			break
		}
		imm, err = asm.valueOf(args[2])
		if err != nil {
			return
		}
		if mnemonic == "add" {
			code, err = MakeCodeAddImm(dst, src, imm)
		} else {
			code, err = MakeCodeAndImm(dst, src, imm)
		}
	case mnemonic == "not":
		err = argCount(args, 2)
		if err != nil {
			return
		}
		var dst, src int
		dst, err = asm.register(args[0])
		if err != nil {
			return
		}
		src, err = asm.register(args[1])
		if err != nil {
			return
		}
		code, err = MakeCodeNot(dst, src)
	case pcOffsetMap[mnemonic] != nil:
		err = argCount(args, 2)
		if err != nil {
			return
		}
		var reg, offset int
		reg, err = asm.register(args[0])
		if err != nil {
			return
		}
		offset, label, err = asm.pcOffset(args[1])
		if err != nil {
			return
		}
		link_pc = true
		code, err = pcOffsetMap[mnemonic](reg, offset)
	case strings.HasPrefix(mnemonic, "br"):
		var n, z, p bool
		n, z, p, err = branchFlags(mnemonic[2:])
		if err != nil {
			return
		}
		err = argCount(args, 1)
		if err != nil {
			return
		}
		var offset int
		offset, label, err = asm.pcOffset(args[0])
		if err != nil {
			return
		}
		link_pc = true
		code, err = MakeCodeBr(n, z, p, offset)
	case mnemonic == "ldr" || mnemonic == "str":
		err = argCount(args, 3)
		if err != nil {
			return
		}
		var reg, base, offset int
		reg, err = asm.register(args[0])
		if err != nil {
			return
		}
		base, err = asm.register(args[1])
		if err != nil {
			return
		}
		offset, err = asm.valueOf(args[2])
		if err != nil {
			return
		}
		if mnemonic == "ldr" {
			code, err = MakeCodeLdr(reg, base, offset)
		} else {
			code, err = MakeCodeStr(reg, base, offset)
		}
	case mnemonic == "trap":
		err = argCount(args, 1)
		if err != nil {
			return
		}
		var vector int
		vector, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if vector < 0 || vector > 0xff {
			err = word.ErrValue{Value: vector, Width: fieldTrap.length}
			return
		}
		code, err = MakeCodeTrap(CodeTrap(vector))
	case mnemonic == ".fill":
		err = argCount(args, 1)
		if err != nil {
			return
		}
		var value int
		value, err = asm.valueOf(args[0])
		if err != nil {
			if !asm.isLabel(args[0]) {
				return
			}
			err = nil
			label = args[0]
		}
		if value < -(1<<(word.WIDTH-1)) || value >= (1<<word.WIDTH) {
			err = word.ErrValue{Value: value, Width: word.WIDTH}
			return
		}
		code = Code{Word: word.Wrap(value)}
	case mnemonic == ".blkw":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var count, value int
		count, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if len(args) == 2 {
			value, err = asm.valueOf(args[1])
			if err != nil {
				return
			}
		}
		if count <= 0 || count > MEMORY_SIZE {
			err = ErrProgramSize
			return
		}
		for range count {
			codes = append(codes, Code{Word: word.Wrap(value)})
		}
		return
	default:
		err = ErrInstructionInvalid
		return
	}

	if err != nil {
		return
	}

	codes = append(codes, code)

	return
}
