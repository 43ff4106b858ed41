package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/nmclean/internal/catalog"
	"github.com/fenilsonani/nmclean/internal/cleaner"
	"github.com/fenilsonani/nmclean/internal/platform"
	"github.com/fenilsonani/nmclean/internal/ui/styles"
	uiutils "github.com/fenilsonani/nmclean/internal/ui/utils"
)

// deleteJob is the work behind one EffectDelete
type deleteJob struct {
	entries   []catalog.Entry
	root      string
	cleaner   *cleaner.Cleaner
	builder   *catalog.Builder
	diskUsage func(string) (*platform.DiskUsage, error)
}

type deleteStreamMsg struct {
	ch <-chan tea.Msg
}

type entryDeletedMsg struct {
	result cleaner.Result
}

type rebuildStartedMsg struct{}

type reloadedMsg struct {
	report  *cleaner.Report
	catalog *catalog.Catalog
	disk    *platform.DiskUsage
	err     error
}

type diskUsageMsg struct {
	usage *platform.DiskUsage
	err   error
}

func startDeleteCmd(job deleteJob) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan tea.Msg)
		go runDeleteStream(job, ch)
		return deleteStreamMsg{ch: ch}
	}
}

// runDeleteStream deletes, rescans and reports every step on ch
func runDeleteStream(job deleteJob, ch chan<- tea.Msg) {
	defer close(ch)

	report := job.cleaner.Delete(job.entries, func(r cleaner.Result) {
		ch <- entryDeletedMsg{result: r}
	})

	ch <- rebuildStartedMsg{}
	c, err := job.builder.Build(job.root)

	msg := reloadedMsg{report: report, catalog: c, err: err}
	if job.diskUsage != nil {
		msg.disk, _ = job.diskUsage(job.root)
	}
	ch <- msg
}

func waitStreamMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func diskUsageCmd(fn func(string) (*platform.DiskUsage, error), root string) tea.Cmd {
	return func() tea.Msg {
		usage, err := fn(root)
		return diskUsageMsg{usage: usage, err: err}
	}
}

// cleanupView renders the Loading mode
func (m *AppModel) cleanupView() string {
	var b strings.Builder
	total := len(m.inFlight)

	b.WriteString(m.spinner.View())
	if m.rebuilding {
		b.WriteString(" Rescanning ")
		b.WriteString(styles.FilePathStyle.Render(m.state.Catalog.Root))
		b.WriteString("...")
	} else {
		b.WriteString(fmt.Sprintf(" Deleting %d/%d...", m.done, total))
	}
	b.WriteString("\n\n")

	percent := 1.0
	if total > 0 {
		percent = float64(m.done) / float64(total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n\n")

	if r := m.lastResult; r != nil {
		path := uiutils.TruncatePath(r.Entry.Path, m.pathWidth())
		if r.Err == nil {
			b.WriteString(styles.SuccessStyle.Render("✓ "))
			b.WriteString(path)
		} else {
			b.WriteString(styles.ErrorStyle.Render("✗ "))
			b.WriteString(path)
			b.WriteString(styles.DimStyle.Render(" (" + r.Err.UserMessage() + ")"))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(styles.HelpStyle.Render("Deletion cannot be interrupted."))
	return b.String()
}
