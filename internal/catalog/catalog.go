// Package catalog holds the sorted list of target directories, their sizes
// and the operator's selection.
package catalog

import (
	"fmt"
	"sort"

	"github.com/spf13/afero"

	"github.com/fenilsonani/nmclean/internal/scanner"
	"github.com/fenilsonani/nmclean/internal/sizer"
)

// Entry is one target directory and its aggregated size
type Entry struct {
	Path      string `json:"path" yaml:"path"`
	SizeBytes uint64 `json:"size_bytes" yaml:"size_bytes"`
}

// Catalog is an ordered list of entries with a parallel selection vector.
// A Catalog is treated as immutable once built: selection changes go
// through WithSelection, which returns a copy.
type Catalog struct {
	Root     string
	Entries  []Entry
	Selected []bool
	Skipped  []scanner.Skipped
}

// New creates a catalog over entries with nothing selected
func New(root string, entries []Entry) *Catalog {
	return &Catalog{
		Root:     root,
		Entries:  entries,
		Selected: make([]bool, len(entries)),
	}
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// Empty reports whether the catalog has no entries
func (c *Catalog) Empty() bool {
	return c.Len() == 0
}

// IsSelected reports whether entry i is selected. Out of range is false.
func (c *Catalog) IsSelected(i int) bool {
	if i < 0 || i >= c.Len() {
		return false
	}
	return c.Selected[i]
}

// WithSelection returns a copy of c with entry i's flag set to v. The
// receiver is left untouched; an out of range index returns c itself.
func (c *Catalog) WithSelection(i int, v bool) *Catalog {
	if i < 0 || i >= c.Len() || c.Selected[i] == v {
		return c
	}

	selected := make([]bool, len(c.Selected))
	copy(selected, c.Selected)
	selected[i] = v

	next := *c
	next.Selected = selected
	return &next
}

// SelectedEntries returns the selected entries in catalog order
func (c *Catalog) SelectedEntries() []Entry {
	var entries []Entry
	for i := 0; i < c.Len(); i++ {
		if c.Selected[i] {
			entries = append(entries, c.Entries[i])
		}
	}
	return entries
}

// SelectedCount returns how many entries are selected
func (c *Catalog) SelectedCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.Selected[i] {
			n++
		}
	}
	return n
}

// SelectedSize returns the summed size of the selected entries
func (c *Catalog) SelectedSize() uint64 {
	var total uint64
	for i := 0; i < c.Len(); i++ {
		if c.Selected[i] {
			total += c.Entries[i].SizeBytes
		}
	}
	return total
}

// TotalSize returns the summed size of every entry
func (c *Catalog) TotalSize() uint64 {
	var total uint64
	for i := 0; i < c.Len(); i++ {
		total += c.Entries[i].SizeBytes
	}
	return total
}

// Progress receives notifications while a catalog is built
type Progress interface {
	StartScan(root string)
	Scanning(visited, found int)
	StartSizing(n int)
	Sizing(done, total int)
	Finish(entries int, total uint64)
}

// Builder runs the scan and size aggregation that produce a Catalog
type Builder struct {
	Fs      afero.Fs
	Workers int
	Exclude []string
	// MinSize drops entries smaller than this many bytes
	MinSize  uint64
	Progress Progress
}

// Build scans root, measures every target found and returns the entries
// sorted by size, largest first. Only an unusable root is an error.
func (b *Builder) Build(root string) (*Catalog, error) {
	opts := scanner.Options{Exclude: b.Exclude}
	if b.Progress != nil {
		b.Progress.StartScan(root)
		opts.OnProgress = b.Progress.Scanning
	}

	result, err := scanner.New(b.Fs, opts).Scan(root)
	if err != nil {
		return nil, err
	}

	var onDone func(done, total int)
	if b.Progress != nil {
		b.Progress.StartSizing(len(result.Paths))
		onDone = b.Progress.Sizing
	}

	measured, err := sizer.New(b.Fs, b.Workers).Aggregate(result.Paths, onDone)
	if err != nil {
		return nil, fmt.Errorf("failed to measure %s: %w", root, err)
	}

	entries := make([]Entry, 0, len(measured))
	for _, m := range measured {
		if m.SizeBytes < b.MinSize {
			continue
		}
		entries = append(entries, Entry{Path: m.Path, SizeBytes: m.SizeBytes})
	}
	Sort(entries)

	c := New(result.Root, entries)
	c.Skipped = result.Skipped

	if b.Progress != nil {
		b.Progress.Finish(c.Len(), c.TotalSize())
	}
	return c, nil
}

// Sort orders entries by size descending, ties broken by path
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SizeBytes != entries[j].SizeBytes {
			return entries[i].SizeBytes > entries[j].SizeBytes
		}
		return entries[i].Path < entries[j].Path
	})
}
