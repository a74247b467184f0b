package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// StatusPrinter writes the infinite loop's status line. The line is
// rewritten in place after every cycle and ends without a newline until
// shutdown.
type StatusPrinter struct {
	mu    sync.Mutex
	out   io.Writer
	green *color.Color
	blue  *color.Color
	dirty bool
}

// NewStatusPrinter creates a printer writing to out (os.Stdout if nil).
func NewStatusPrinter(out io.Writer, caps TerminalCapabilities) *StatusPrinter {
	if out == nil {
		out = os.Stdout
	}
	p := &StatusPrinter{
		out:   out,
		green: color.New(color.FgGreen),
		blue:  color.New(color.FgBlue),
	}
	if !caps.SupportsColor {
		p.green.DisableColor()
		p.blue.DisableColor()
	} else {
		p.green.EnableColor()
		p.blue.EnableColor()
	}
	return p
}

// Started prints the start line.
func (p *StatusPrinter) Started(at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.green.Fprintf(p.out, "Starting mail fetcher at %s", at.Format(TimeLayout))
	p.dirty = true
}

// CycleCompleted overwrites the current line with the last check time.
func (p *StatusPrinter) CycleCompleted(at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, "\r")
	p.blue.Fprintf(p.out, "In mail fetcher loop. Last check at %s", at.Format(TimeLayout))
	p.dirty = true
}

// ShuttingDown terminates the status line so later output starts on a
// fresh line.
func (p *StatusPrinter) ShuttingDown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dirty {
		fmt.Fprintln(p.out)
		p.dirty = false
	}
}
