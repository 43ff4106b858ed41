package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/nmclean/internal/catalog"
	"github.com/fenilsonani/nmclean/internal/cleaner"
	"github.com/fenilsonani/nmclean/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// ParseFormat validates a format name
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use summary, table, json or yaml)", s)
	}
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
	now    func() time.Time
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
		now:    time.Now,
	}
}

// catalogReport is the machine-readable form of a catalog
type catalogReport struct {
	Timestamp          string          `json:"timestamp" yaml:"timestamp"`
	Root               string          `json:"root" yaml:"root"`
	TotalDirs          int             `json:"total_dirs" yaml:"total_dirs"`
	TotalSize          uint64          `json:"total_size" yaml:"total_size"`
	TotalSizeFormatted string          `json:"total_size_formatted" yaml:"total_size_formatted"`
	Entries            []catalog.Entry `json:"entries" yaml:"entries"`
	Skipped            []string        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Report writes c in the reporter's format
func (r *Reporter) Report(c *catalog.Catalog) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(c)
	case FormatJSON:
		return r.reportJSON(c)
	case FormatYAML:
		return r.reportYAML(c)
	case FormatSummary:
		return r.reportSummary(c)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) reportSummary(c *catalog.Catalog) error {
	fmt.Fprintf(r.writer, "=== node_modules Summary ===\n")
	fmt.Fprintf(r.writer, "Root: %s\n", c.Root)
	fmt.Fprintf(r.writer, "Directories: %d\n", c.Len())
	fmt.Fprintf(r.writer, "Total Size: %s\n", utils.FormatBytes(c.TotalSize()))

	if n := c.Len(); n > 0 {
		top := n
		if top > 5 {
			top = 5
		}
		fmt.Fprintf(r.writer, "\nLargest:\n")
		for _, e := range c.Entries[:top] {
			fmt.Fprintf(r.writer, "  %10s  %s\n", utils.FormatBytes(e.SizeBytes), e.Path)
		}
	}

	if len(c.Skipped) > 0 {
		fmt.Fprintf(r.writer, "\nUnreadable paths skipped: %d\n", len(c.Skipped))
	}

	return nil
}

func (r *Reporter) reportTable(c *catalog.Catalog) error {
	const width = 60
	rule := strings.Repeat("-", width+15)

	fmt.Fprintf(r.writer, "%-*s | %s\n", width, "Path", "Size")
	fmt.Fprintln(r.writer, rule)

	for _, e := range c.Entries {
		path := e.Path
		if len(path) > width {
			path = "..." + path[len(path)-(width-3):]
		}
		fmt.Fprintf(r.writer, "%-*s | %s\n", width, path, utils.FormatBytes(e.SizeBytes))
	}

	fmt.Fprintln(r.writer, rule)
	fmt.Fprintf(r.writer, "Total: %d directories, %s\n", c.Len(), utils.FormatBytes(c.TotalSize()))

	return nil
}

func (r *Reporter) build(c *catalog.Catalog) catalogReport {
	report := catalogReport{
		Timestamp:          r.now().Format(time.RFC3339),
		Root:               c.Root,
		TotalDirs:          c.Len(),
		TotalSize:          c.TotalSize(),
		TotalSizeFormatted: utils.FormatBytes(c.TotalSize()),
		Entries:            c.Entries,
	}
	if report.Entries == nil {
		report.Entries = []catalog.Entry{}
	}
	for _, s := range c.Skipped {
		report.Skipped = append(report.Skipped, s.Path)
	}
	return report
}

func (r *Reporter) reportJSON(c *catalog.Catalog) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r.build(c))
}

func (r *Reporter) reportYAML(c *catalog.Catalog) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(r.build(c))
}

// SaveToFile saves the report to a file
func SaveToFile(c *catalog.Catalog, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return New(file, format).Report(c)
}

// Deletion writes one line per attempted delete, the grouped error
// summary and a closing line with the space freed
func Deletion(w io.Writer, report *cleaner.Report) {
	for _, res := range report.Results {
		if res.Err == nil {
			fmt.Fprintf(w, "Deleted %s\n", res.Entry.Path)
		} else {
			fmt.Fprintf(w, "Failed to delete %s: %s\n", res.Entry.Path, res.Err.UserMessage())
		}
	}

	if summary := cleaner.FormatErrorSummary(report.Errors()); summary != "" {
		fmt.Fprint(w, summary)
	}

	fmt.Fprintf(w, "Done. %d deleted, %d failed, %s freed.\n",
		report.Deleted, report.Failed, utils.FormatBytes(report.FreedBytes))
}
