// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/ezrec/lc3sim/emulator"
	"github.com/ezrec/lc3sim/io"
)

// load assembles a source file, or reads a memory image, into the emulator.
func load(emu *emulator.Emulator, compile string, image string) (err error) {
	switch {
	case len(compile) != 0 && len(image) != 0:
		err = errors.New("only one of -c or -i may be used")
	case len(compile) != 0:
		var inf *os.File
		inf, err = os.Open(compile)
		if err != nil {
			return
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			err = errors.Wrapf(err, "%v", compile)
		}
	case len(image) != 0:
		var inf *os.File
		inf, err = os.Open(image)
		if err != nil {
			return
		}
		defer inf.Close()

		var data []uint16
		data, err = io.ReadImage(inf)
		if err == nil {
			err = emu.LoadImage(data)
		}
		if err != nil {
			err = errors.Wrapf(err, "%v", image)
		}
	default:
		err = errors.New("one of -c or -i is required")
	}

	return
}

// saveImage writes the program image of the emulator.
func saveImage(emu *emulator.Emulator, save string) (err error) {
	ouf, err := os.Create(save)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = io.WriteImage(ouf, emu.Program.Binary())
	if err != nil {
		err = errors.Wrapf(err, "%v", save)
	}

	return
}

func main() {
	var compile string
	var image string
	var save string
	var limit int
	var strict bool
	var verbose bool
	var dump bool
	var list bool
	var ui bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&image, "i", "", ".img memory image to load")
	flag.StringVar(&save, "s", "", "Save memory image to file, do not execute")
	flag.IntVar(&limit, "n", 0, "Tick limit, 0 for none")
	flag.BoolVar(&strict, "strict", false, "Invalid instructions and traps are fatal")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&dump, "d", false, "Dump machine state after execution")
	flag.BoolVar(&list, "l", false, "Print the program listing, do not execute")
	flag.BoolVar(&ui, "ui", false, "Interactive viewer")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Cpu.Strict = strict
	emu.Console.Output = os.Stdout

	err := load(emu, compile, image)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if list {
		err = dumpListing(emu.Program)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
	}

	if len(save) != 0 {
		err = saveImage(emu, save)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		return
	}

	if list {
		return
	}

	if ui {
		err = runViewer(emu, limit)
	} else {
		err = emu.Reset()
		if err == nil {
			err = emu.Run(limit)
		}
	}

	if dump {
		fmt.Print(emu.Cpu.String())
	}

	if err != nil {
		log.Fatal(err)
	}
}
