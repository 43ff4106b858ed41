// Package ui runs the interactive terminal session.
package ui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/fenilsonani/nmclean/internal/catalog"
	"github.com/fenilsonani/nmclean/internal/cleaner"
	"github.com/fenilsonani/nmclean/internal/platform"
	"github.com/fenilsonani/nmclean/internal/ui/models"
)

// ErrNoTerminal is returned when stdin or stdout is not an interactive terminal
var ErrNoTerminal = errors.New("interactive mode requires a terminal")

// Options configures an interactive session
type Options struct {
	Catalog *catalog.Catalog
	Builder *catalog.Builder
	Cleaner *cleaner.Cleaner
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Run shows the catalog and lets the user select and delete entries until
// they quit. Nothing is touched when no terminal is available.
func Run(opts Options) (*models.Outcome, error) {
	if !IsTerminal(os.Stdin) || !IsTerminal(os.Stdout) {
		return nil, ErrNoTerminal
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 0, 0
	}

	m := models.NewAppModel(models.Options{
		Catalog:   opts.Catalog,
		Builder:   opts.Builder,
		Cleaner:   opts.Cleaner,
		DiskUsage: platform.GetDiskUsage,
		Width:     width,
		Height:    height,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithInput(os.Stdin),
		tea.WithOutput(os.Stdout),
	)

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running interactive mode: %w", err)
	}

	if fm, ok := final.(*models.AppModel); ok {
		return fm.Outcome(), nil
	}
	return m.Outcome(), nil
}
