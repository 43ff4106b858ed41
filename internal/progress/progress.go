// Package progress prints human-readable phase lines while a catalog is built.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Phase represents the current phase of operation
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseScanning Phase = "scanning"
	PhaseSizing   Phase = "sizing"
	PhaseComplete Phase = "complete"
)

// DefaultInterval is the minimum time between two throttled updates
const DefaultInterval = 150 * time.Millisecond

// Printer writes progress to w. Counter updates within a phase are throttled
// and redrawn in place; phase changes always print.
type Printer struct {
	w        io.Writer
	verbose  bool
	interval time.Duration

	mu      sync.Mutex
	phase   Phase
	started time.Time
	last    time.Time
	inline  bool
	now     func() time.Time
}

// NewPrinter creates a Printer. When verbose is set the scan duration is
// printed on completion.
func NewPrinter(w io.Writer, verbose bool) *Printer {
	return &Printer{
		w:        w,
		verbose:  verbose,
		interval: DefaultInterval,
		phase:    PhaseIdle,
		now:      time.Now,
	}
}

// Phase returns the current phase
func (p *Printer) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// StartScan announces the directory walk
func (p *Printer) StartScan(root string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.phase = PhaseScanning
	p.started = p.now()
	p.last = time.Time{}
	fmt.Fprintf(p.w, "Searching for node_modules in %s\n", root)
}

// Scanning reports walk counters
func (p *Printer) Scanning(visited, found int) {
	p.update(PhaseScanning, fmt.Sprintf("  %d directories visited, %d found", visited, found))
}

// StartSizing announces size aggregation over n directories
func (p *Printer) StartSizing(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.endLine()
	p.phase = PhaseSizing
	p.last = time.Time{}
	fmt.Fprintf(p.w, "Calculating sizes of %d %s...\n", n, plural(n, "directory", "directories"))
}

// Sizing reports aggregation counters
func (p *Printer) Sizing(done, total int) {
	p.update(PhaseSizing, fmt.Sprintf("  %d/%d measured", done, total))
}

// Finish ends the current phase
func (p *Printer) Finish(entries int, total uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.endLine()
	p.phase = PhaseComplete
	if p.verbose {
		fmt.Fprintf(p.w, "Scan duration was %s (%d %s, %s)\n",
			FormatDuration(p.now().Sub(p.started)),
			entries, plural(entries, "directory", "directories"),
			humanize.Bytes(total))
	}
}

func (p *Printer) update(phase Phase, line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.phase != phase {
		return
	}
	now := p.now()
	if !p.last.IsZero() && now.Sub(p.last) < p.interval {
		return
	}
	p.last = now
	p.inline = true
	fmt.Fprintf(p.w, "\r%s", line)
}

func (p *Printer) endLine() {
	if p.inline {
		fmt.Fprintln(p.w)
		p.inline = false
	}
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	d = d.Round(10 * time.Millisecond)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d.Seconds()

	if h > 0 {
		return fmt.Sprintf("%dh%dm%.0fs", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%.0fs", m, s)
	}
	return fmt.Sprintf("%.2fs", s)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
