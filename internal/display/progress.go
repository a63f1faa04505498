// Package display renders search progress for a terminal.
//
// On a terminal each attempted candidate overwrites the previous one in
// place; elsewhere candidates are appended as plain lines.
package display

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/gitrdm/gomarkov/pkg/markov"
)

const (
	clearLine = "\x1b[2K"
	// cursorUp moves the cursor to the start of the line n lines up.
	cursorUp = "\x1b[%dF"
)

var (
	tryingStyle = color.New(color.FgYellow)
	foundStyle  = color.New(color.FgGreen, color.Bold)
	failStyle   = color.New(color.FgRed, color.Bold)
	statsStyle  = color.New(color.FgCyan)
)

// Progress writes candidates and results to an output stream.
type Progress struct {
	mu       sync.Mutex
	out      io.Writer
	tty      bool
	interval time.Duration
	last     time.Time
	pending  int // lines drawn by the last in-place render
}

// NewProgress creates a progress display on out. Candidates are drawn at
// most once per interval; zero draws every candidate.
func NewProgress(out io.Writer, interval time.Duration) *Progress {
	return &Progress{
		out:      out,
		tty:      IsTerminal(out),
		interval: interval,
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetTerminal forces in-place rendering on or off.
func (p *Progress) SetTerminal(tty bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tty = tty
}

// Candidate draws a program that was tried and did not match.
func (p *Progress) Candidate(c markov.Candidate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if p.interval > 0 && now.Sub(p.last) < p.interval {
		return
	}
	p.last = now

	if !p.tty {
		fmt.Fprintf(p.out, "Trying lines=%d idx=%d\n", c.Lines, c.Index)
		for _, r := range c.Program {
			fmt.Fprintln(p.out, r)
		}
		return
	}

	fmt.Fprint(p.out, clearLine)
	tryingStyle.Fprintf(p.out, "Trying lines=%d idx=%d\n", c.Lines, c.Index)
	for _, r := range c.Program {
		fmt.Fprintf(p.out, "%s%s\n", clearLine, r)
	}
	p.pending = len(c.Program) + 1
	fmt.Fprintf(p.out, cursorUp, p.pending)
}

// Found draws the matching program.
func (p *Progress) Found(c markov.Candidate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clear()
	foundStyle.Fprintf(p.out, "Found!! lines=%d idx=%d\n", c.Lines, c.Index)
	for _, r := range c.Program {
		fmt.Fprintln(p.out, r)
	}
}

// NotFound reports a search that ended without a match.
func (p *Progress) NotFound(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clear()
	failStyle.Fprintf(p.out, "Not found: %v\n", err)
}

// Stats prints a statistics summary line.
func (p *Progress) Stats(s markov.SearchStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	statsStyle.Fprintln(p.out, s.String())
}

// clear erases the lines of the last in-place render.
func (p *Progress) clear() {
	if !p.tty || p.pending == 0 {
		return
	}
	for i := 0; i < p.pending; i++ {
		fmt.Fprintf(p.out, "%s\n", clearLine)
	}
	fmt.Fprintf(p.out, cursorUp, p.pending)
	p.pending = 0
}
