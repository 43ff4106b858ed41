package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/nmclean/internal/catalog"
	"github.com/fenilsonani/nmclean/internal/ui/styles"
	"github.com/fenilsonani/nmclean/pkg/utils"
)

// InfoPanel represents a contextual information panel
type InfoPanel struct {
	title   string
	content []InfoItem
	visible bool
	width   int
}

// InfoItem represents a single piece of information
type InfoItem struct {
	Label string
	Value string
}

// NewInfoPanel creates a new info panel
func NewInfoPanel(title string, width int) *InfoPanel {
	return &InfoPanel{
		title: title,
		width: width,
	}
}

// AddItem adds an information item to the panel
func (p *InfoPanel) AddItem(label, value string) {
	p.content = append(p.content, InfoItem{Label: label, Value: value})
}

// SetVisible sets the visibility of the panel
func (p *InfoPanel) SetVisible(visible bool) {
	p.visible = visible
}

// IsVisible returns whether the panel is visible
func (p *InfoPanel) IsVisible() bool {
	return p.visible
}

// Toggle toggles the visibility of the panel
func (p *InfoPanel) Toggle() {
	p.visible = !p.visible
}

// Render renders the info panel
func (p *InfoPanel) Render() string {
	if !p.visible || len(p.content) == 0 {
		return ""
	}

	panelWidth := p.width - 4
	if panelWidth < 40 {
		panelWidth = 40
	}
	if panelWidth > 100 {
		panelWidth = 100
	}

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.FocusBorder).
		Padding(0, 1).
		Width(panelWidth)

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Bold(true)

	var content strings.Builder
	content.WriteString(titleStyle.Render(p.title))

	for _, item := range p.content {
		content.WriteString("\n")
		content.WriteString(labelStyle.Render(item.Label) + ": " + item.Value)
	}

	return panelStyle.Render(content.String())
}

// EntryInfoPanel describes one catalog entry relative to the whole catalog
func EntryInfoPanel(entry catalog.Entry, selected bool, catalogTotal uint64, width int) *InfoPanel {
	panel := NewInfoPanel("Details", width)

	panel.AddItem("Project", filepath.Dir(entry.Path))
	panel.AddItem("Path", entry.Path)
	panel.AddItem("Size", fmt.Sprintf("%s (%d bytes)", utils.FormatBytes(entry.SizeBytes), entry.SizeBytes))

	share := 0.0
	if catalogTotal > 0 {
		share = float64(entry.SizeBytes) * 100 / float64(catalogTotal)
	}
	panel.AddItem("Share of total", fmt.Sprintf("%.1f%%", share))

	state := "no"
	if selected {
		state = "yes"
	}
	panel.AddItem("Marked for deletion", state)

	return panel
}
