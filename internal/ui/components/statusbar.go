package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/nmclean/internal/ui/styles"
	"github.com/fenilsonani/nmclean/pkg/utils"
)

// StatusBar is the line at the bottom of the list showing the mode, the
// selection and a short message
type StatusBar struct {
	mode     string
	selected int
	total    int
	size     uint64
	message  string
	isError  bool
}

// NewStatusBar creates a new status bar
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetMode sets the mode label shown on the left
func (s *StatusBar) SetMode(mode string) {
	s.mode = mode
}

// SetSelection sets the selection count, total, and selected size
func (s *StatusBar) SetSelection(selected, total int, size uint64) {
	s.selected = selected
	s.total = total
	s.size = size
}

// SetMessage sets the message shown on the right
func (s *StatusBar) SetMessage(message string) {
	s.message = message
	s.isError = false
}

// SetError shows message as an error
func (s *StatusBar) SetError(message string) {
	s.message = message
	s.isError = true
}

// Render renders the status bar with the given width
func (s *StatusBar) Render(width int) string {
	if width <= 0 {
		width = 80
	}

	var parts []string

	if s.mode != "" {
		parts = append(parts, styles.BoldStyle.Render(strings.ToUpper(s.mode)))
	}

	if s.total > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d selected", s.selected, s.total))
	}

	if s.size > 0 {
		parts = append(parts, styles.FileSizeStyle.Render(utils.FormatBytes(s.size)))
	}

	leftSide := strings.Join(parts, " • ")

	rightSide := s.message
	if s.isError {
		rightSide = styles.ErrorStyle.Render(rightSide)
	}

	leftLen := lipgloss.Width(leftSide)
	rightLen := lipgloss.Width(rightSide)
	spacing := width - leftLen - rightLen - 2 // -2 for padding

	if spacing < 1 {
		maxRightLen := width - leftLen - 5
		if maxRightLen > 3 && rightLen > maxRightLen && !s.isError {
			rightSide = rightSide[:maxRightLen-3] + "..."
		}
		spacing = 1
	}

	statusLine := leftSide + strings.Repeat(" ", spacing) + rightSide

	statusBarStyle := lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.BgDark).
		Padding(0, 1).
		Width(width)

	return statusBarStyle.Render(statusLine)
}
