package main

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jroimartin/gocui"

	"github.com/ezrec/lc3sim/cpu"
	"github.com/ezrec/lc3sim/emulator"
)

// Tick limit of a single run command, when no limit is given.
const viewerRunLimit = 100000

// viewer is an interactive single stepping front end.
type viewer struct {
	emu    *emulator.Emulator
	limit  int
	status string
	done   bool

	restoreLog func() // Set once the log view owns the standard logger.
}

// redirectLog sends the standard logger to w, returning a function that
// restores the previous output.
func redirectLog(w io.Writer) (restore func()) {
	previous := log.Writer()
	log.SetOutput(w)

	return func() {
		log.SetOutput(previous)
	}
}

// runViewer runs the emulator under the interactive viewer, until quit.
func runViewer(emu *emulator.Emulator, limit int) (err error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return
	}
	defer g.Close()

	if limit <= 0 {
		limit = viewerRunLimit
	}

	ui := &viewer{emu: emu, limit: limit}
	defer func() {
		if ui.restoreLog != nil {
			ui.restoreLog()
		}
	}()

	// OUT writes to the console view once it exists.
	emu.Console.Output = nil

	g.SetManagerFunc(ui.layout)

	bindings := [](struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}){
		{gocui.KeyCtrlC, ui.quit},
		{'q', ui.quit},
		{'s', ui.step},
		{'r', ui.run},
		{'x', ui.reset},
	}
	for _, binding := range bindings {
		err = g.SetKeybinding("", binding.key, gocui.ModNone, binding.handler)
		if err != nil {
			return
		}
	}

	err = emu.Reset()
	if err != nil {
		return
	}
	ui.status = "reset"

	err = g.MainLoop()
	if errors.Is(err, gocui.ErrQuit) {
		err = nil
	}

	return
}

// layout creates the views, and redraws the machine state.
func (ui *viewer) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView("memory", 0, 0, 48, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Memory"
	}

	if v, err := g.SetView("registers", 49, 0, maxX-1, 5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Registers"
	}

	if v, err := g.SetView("console", 49, 6, maxX-1, maxY-11); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Console"
		v.Wrap = true
		v.Autoscroll = true
		ui.emu.Console.Output = v
	}

	// Trace and soft error logging would corrupt the screen.
	if v, err := g.SetView("log", 49, maxY-10, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Log"
		v.Wrap = true
		v.Autoscroll = true
		ui.restoreLog = redirectLog(v)
	}

	if v, err := g.SetView("status", 49, maxY-4, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
	}

	return ui.redraw(g)
}

// redraw refreshes the memory, register and status views.
func (ui *viewer) redraw(g *gocui.Gui) (err error) {
	emu := ui.emu

	v, err := g.View("memory")
	if err != nil {
		return
	}
	v.Clear()
	pc := emu.Address()
	for address, data := range emu.Cpu.Memory() {
		marker := "  "
		if address == pc {
			marker = "> "
		}
		fmt.Fprintf(v, "%v%02d %v %v\n", marker, address, data, cpu.Code{Word: data})
	}

	v, err = g.View("registers")
	if err != nil {
		return
	}
	v.Clear()
	for n, reg := range emu.Cpu.Registers() {
		fmt.Fprintf(v, "R%d %v %6d", n, reg, reg.Signed())
		if n%2 == 1 {
			fmt.Fprintln(v)
		} else {
			fmt.Fprint(v, "  ")
		}
	}
	fmt.Fprintf(v, "PC %v  IR %v  CC %v\n", emu.Cpu.PC(), emu.Cpu.IR(), emu.Cpu.CC())

	v, err = g.View("status")
	if err != nil {
		return
	}
	v.Clear()
	fmt.Fprintf(v, "line %d  ticks %d\n", emu.LineNo(), emu.Cpu.Ticks)
	fmt.Fprintf(v, "%v\n", ui.status)
	fmt.Fprintf(v, "s: step  r: run  x: reset  ^C: quit")

	return
}

// report records the outcome of a command.
func (ui *viewer) report(done bool, err error) {
	switch {
	case err != nil:
		ui.status = err.Error()
		ui.done = true
	case done:
		ui.status = "halted"
		ui.done = true
	default:
		ui.status = "ready"
	}
}

func (ui *viewer) step(g *gocui.Gui, v *gocui.View) error {
	if ui.done {
		return nil
	}

	ui.report(ui.emu.Tick())

	return nil
}

func (ui *viewer) run(g *gocui.Gui, v *gocui.View) error {
	if ui.done {
		return nil
	}

	err := ui.emu.Run(ui.limit)
	ui.report(err == nil, err)

	return nil
}

func (ui *viewer) reset(g *gocui.Gui, v *gocui.View) error {
	console, err := g.View("console")
	if err != nil {
		return err
	}
	console.Clear()

	ui.done = false
	ui.report(false, ui.emu.Reset())
	if !ui.done {
		ui.status = "reset"
	}

	return nil
}

func (ui *viewer) quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
