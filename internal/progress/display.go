package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Display shows start and completion markers around a one-shot run. On a
// TTY the start marker is a spinner; otherwise it is a plain line.
type Display struct {
	capabilities TerminalCapabilities
	symbols      Symbols
	out          io.Writer
	spinner      *spinner.Spinner
	started      bool
}

// NewDisplay creates a display writing to out (os.Stdout if nil).
func NewDisplay(out io.Writer, caps TerminalCapabilities) *Display {
	if out == nil {
		out = os.Stdout
	}
	return &Display{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          out,
	}
}

// Start shows the "Running <label>" marker.
func (d *Display) Start(label string) {
	msg := "Running " + label
	d.started = true

	if d.capabilities.IsTTY {
		d.spinner = spinner.New(
			spinner.CharSets[d.symbols.SpinnerSet],
			100*time.Millisecond,
			spinner.WithWriter(d.out),
		)
		d.spinner.Suffix = " " + msg
		d.spinner.Start()
		return
	}

	d.colorize(color.FgBlue).Fprint(d.out, msg)
}

// Complete replaces the start marker with "Running <label> completed".
func (d *Display) Complete(label string) {
	d.finish(d.symbols.Checkmark, color.FgGreen, fmt.Sprintf("Running %s completed", label))
}

// Fail replaces the start marker with a failure line carrying err.
func (d *Display) Fail(label string, err error) {
	d.finish(d.symbols.Failure, color.FgRed, fmt.Sprintf("Running %s failed: %v", label, err))
}

// Stop halts the spinner without printing a result.
func (d *Display) Stop() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

func (d *Display) finish(mark string, attr color.Attribute, msg string) {
	d.Stop()
	if d.started {
		fmt.Fprint(d.out, "\r")
		d.started = false
	}
	c := d.colorize(attr)
	c.Fprintf(d.out, "%s %s\n", mark, msg)
}

func (d *Display) colorize(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if d.capabilities.SupportsColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
