// Package cpu implements the processor and assembler for the lc3sim system.
//
// The machine is a subset of the LC-3: eight 16-bit general-purpose
// registers (r0-r7), 50 words of memory, a program counter (PC), an
// instruction register (IR) and a one-hot N/Z/P condition code (CC).
// Every field of every instruction is decoded as a slice of the
// instruction word, so the sign of an offset or immediate always comes from
// the field's own width.
//
// The assembler provides a small assembly language for the implemented
// instructions, supporting macros, labels, equates, and compile-time
// expression evaluation.
package cpu
