package main

import (
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"

	"github.com/ezrec/lc3sim/cpu"
)

// Line is one memory word of a program listing.
type Line struct {
	Address int
	Bits    string
	Code    string
	LineNo  int
	Source  string
}

// listing describes every word of a program, in address order.
func listing(prog *cpu.Program) (lines []Line) {
	for address, code := range prog.Codes() {
		line := Line{
			Address: address,
			Bits:    code.Bits(),
			Code:    code.String(),
		}

		dbg := prog.Debug(address)
		if dbg.Opcode != nil {
			line.LineNo = dbg.LineNo
			line.Source = strings.Join(dbg.Words, " ")
		}

		lines = append(lines, line)
	}

	return
}

// dumpListing pretty prints the program listing to stdout.
func dumpListing(prog *cpu.Program) (err error) {
	printer := pp.New()
	printer.SetOutput(os.Stdout)
	printer.SetColoringEnabled(false)

	_, err = printer.Println(listing(prog))
	return
}
