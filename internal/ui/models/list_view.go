package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fenilsonani/nmclean/internal/ui/components"
	"github.com/fenilsonani/nmclean/internal/ui/styles"
	uiutils "github.com/fenilsonani/nmclean/internal/ui/utils"
	"github.com/fenilsonani/nmclean/pkg/utils"
)

const sizeColumn = 10

// listView renders the Listing mode
func (m *AppModel) listView() string {
	c := m.state.Catalog
	var b strings.Builder

	if c.Empty() {
		b.WriteString(styles.SuccessStyle.Render("No node_modules left here."))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Press q to quit."))
		b.WriteString("\n\n")
	} else {
		end := min(m.offset+m.pageSize(), c.Len())
		for i := m.offset; i < end; i++ {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
		if c.Len() > end-m.offset {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %d-%d of %d", m.offset+1, end, c.Len())))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.showDetails {
		if entry, ok := m.state.Current(); ok {
			panel := components.EntryInfoPanel(entry, c.IsSelected(m.state.Cursor), c.TotalSize(), m.width)
			panel.SetVisible(true)
			b.WriteString(panel.Render())
			b.WriteString("\n")
		}
	}

	m.statusBar.SetMode(m.state.Mode.String())
	m.statusBar.SetSelection(c.SelectedCount(), c.Len(), c.SelectedSize())
	b.WriteString(m.statusBar.Render(m.width))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m *AppModel) renderRow(i int) string {
	c := m.state.Catalog
	entry := c.Entries[i]

	cursor := "  "
	if i == m.state.Cursor {
		cursor = styles.SelectedStyle.Render("› ")
	}

	box := styles.UncheckedBox()
	if c.IsSelected(i) {
		box = styles.CheckedBox()
	}

	size := styles.FileSizeStyle.Render(fmt.Sprintf("%*s", sizeColumn, utils.FormatBytes(entry.SizeBytes)))

	path := uiutils.TruncatePath(m.displayPath(entry.Path), m.pathWidth())
	if i == m.state.Cursor {
		path = styles.SelectedStyle.Render(path)
	}

	return cursor + box + " " + size + "  " + path
}

// displayPath shows entries relative to the scan root when possible
func (m *AppModel) displayPath(path string) string {
	rel, err := filepath.Rel(m.state.Catalog.Root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func (m *AppModel) pathWidth() int {
	width := m.width
	if width <= 0 {
		width = 80
	}
	// cursor, checkbox, size column and gaps
	return max(width-(2+3+1+sizeColumn+2), 10)
}
