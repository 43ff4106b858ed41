package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestPrinter(verbose bool) (*Printer, *bytes.Buffer, *time.Time) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, verbose)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }
	return p, &buf, &clock
}

func TestPrinterPhases(t *testing.T) {
	p, buf, clock := newTestPrinter(true)

	if p.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %s, want %s", p.Phase(), PhaseIdle)
	}

	p.StartScan("/home/me/code")
	p.Scanning(10, 1)
	p.StartSizing(3)
	p.Sizing(3, 3)
	*clock = clock.Add(1500 * time.Millisecond)
	p.Finish(3, 12_000_000)

	out := buf.String()
	for _, want := range []string{
		"Searching for node_modules in /home/me/code\n",
		"10 directories visited, 1 found",
		"Calculating sizes of 3 directories...",
		"3/3 measured",
		"Scan duration was 1.50s (3 directories, 12 MB)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if p.Phase() != PhaseComplete {
		t.Errorf("phase = %s, want %s", p.Phase(), PhaseComplete)
	}
}

func TestPrinterQuietWithoutVerbose(t *testing.T) {
	p, buf, _ := newTestPrinter(false)

	p.StartScan("/x")
	p.Finish(0, 0)

	if strings.Contains(buf.String(), "Scan duration") {
		t.Errorf("duration printed without verbose:\n%s", buf.String())
	}
}

func TestPrinterThrottles(t *testing.T) {
	p, buf, clock := newTestPrinter(false)
	p.StartScan("/x")

	p.Scanning(1, 0)
	p.Scanning(2, 0)
	p.Scanning(3, 0)
	*clock = clock.Add(DefaultInterval)
	p.Scanning(4, 0)

	out := buf.String()
	if !strings.Contains(out, "1 directories visited") || !strings.Contains(out, "4 directories visited") {
		t.Errorf("expected first and post-interval updates:\n%s", out)
	}
	if strings.Contains(out, "2 directories visited") || strings.Contains(out, "3 directories visited") {
		t.Errorf("expected updates within the interval to be dropped:\n%s", out)
	}
}

func TestPrinterIgnoresOtherPhaseUpdates(t *testing.T) {
	p, buf, _ := newTestPrinter(false)
	p.StartScan("/x")
	p.Sizing(1, 2)

	if strings.Contains(buf.String(), "measured") {
		t.Errorf("sizing update printed during scan:\n%s", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "1m30s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h2m3s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
