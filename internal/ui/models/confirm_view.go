package models

import (
	"fmt"
	"strings"

	"github.com/fenilsonani/nmclean/internal/ui/styles"
	uiutils "github.com/fenilsonani/nmclean/internal/ui/utils"
	"github.com/fenilsonani/nmclean/pkg/utils"
)

// maxConfirmList caps how many paths the confirmation prompt lists
const maxConfirmList = 8

// confirmView renders the ConfirmDelete mode
func (m *AppModel) confirmView() string {
	c := m.state.Catalog
	selected := c.SelectedEntries()
	var b strings.Builder

	var body strings.Builder
	if len(selected) == 0 {
		body.WriteString(styles.WarningStyle.Render("Nothing is selected."))
		body.WriteString("\n")
		body.WriteString("Go back and select directories with space or l.")
	} else {
		body.WriteString(styles.ErrorStyle.Render(fmt.Sprintf(
			"Permanently delete %d %s (%s)?",
			len(selected), plural(len(selected), "directory", "directories"),
			utils.FormatBytes(c.SelectedSize()))))
		body.WriteString("\n\n")

		for i, e := range selected {
			if i == maxConfirmList {
				body.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(selected)-maxConfirmList)))
				body.WriteString("\n")
				break
			}
			body.WriteString(fmt.Sprintf("%*s  %s\n", sizeColumn, utils.FormatBytes(e.SizeBytes),
				uiutils.TruncatePath(m.displayPath(e.Path), m.pathWidth()-4)))
		}

		body.WriteString("\n")
		body.WriteString(styles.WarningStyle.Render("This cannot be undone."))
	}

	b.WriteString(styles.DangerPanelStyle.Render(body.String()))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(confirmKeys{m.keys}))

	return b.String()
}
