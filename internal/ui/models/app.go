package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/nmclean/internal/catalog"
	"github.com/fenilsonani/nmclean/internal/cleaner"
	"github.com/fenilsonani/nmclean/internal/logger"
	"github.com/fenilsonani/nmclean/internal/platform"
	"github.com/fenilsonani/nmclean/internal/session"
	"github.com/fenilsonani/nmclean/internal/ui/components"
	"github.com/fenilsonani/nmclean/internal/ui/styles"
	uiutils "github.com/fenilsonani/nmclean/internal/ui/utils"
	"github.com/fenilsonani/nmclean/pkg/utils"
)

// Options wires the model to the rest of the program
type Options struct {
	Catalog *catalog.Catalog
	// Builder rebuilds the catalog after a delete
	Builder *catalog.Builder
	Cleaner *cleaner.Cleaner
	// DiskUsage, when set, is used to show free space on the root's filesystem
	DiskUsage func(path string) (*platform.DiskUsage, error)
	Width     int
	Height    int
}

// Outcome is what the session did, for printing once the UI has exited
type Outcome struct {
	// Report holds every delete attempt of the session; nil if none happened
	Report  *cleaner.Report
	Catalog *catalog.Catalog
	// ReloadErrors are failures to rescan after a delete
	ReloadErrors []error
}

// AppModel is the root model for the interactive TUI. It owns the session
// state and performs the effects the state machine asks for.
type AppModel struct {
	state session.State
	opts  Options

	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	progress  progress.Model
	statusBar *components.StatusBar

	disk        *platform.DiskUsage
	offset      int
	showDetails bool
	width       int
	height      int

	// Loading
	stream     <-chan tea.Msg
	inFlight   []catalog.Entry
	done       int
	lastResult *cleaner.Result
	rebuilding bool

	report       *cleaner.Report
	reloadErrors []error
}

// NewAppModel creates a new app model listing opts.Catalog
func NewAppModel(opts Options) *AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	p := progress.New(progress.WithDefaultGradient())

	m := &AppModel{
		state:     session.New(opts.Catalog),
		opts:      opts,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   s,
		progress:  p,
		statusBar: components.NewStatusBar(),
	}
	m.resize(opts.Width, opts.Height)
	return m
}

// State returns the current session state
func (m *AppModel) State() session.State {
	return m.state
}

// Outcome returns everything the session did
func (m *AppModel) Outcome() *Outcome {
	return &Outcome{
		Report:       m.report,
		Catalog:      m.state.Catalog,
		ReloadErrors: m.reloadErrors,
	}
}

// Init initializes the model
func (m *AppModel) Init() tea.Cmd {
	if m.opts.DiskUsage == nil || m.state.Catalog == nil {
		return nil
	}
	return diskUsageCmd(m.opts.DiskUsage, m.state.Catalog.Root)
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state.Mode != session.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case diskUsageMsg:
		if msg.err == nil {
			m.disk = msg.usage
		}
		return m, nil

	case deleteStreamMsg:
		m.stream = msg.ch
		return m, waitStreamMsg(m.stream)

	case entryDeletedMsg:
		m.done++
		res := msg.result
		m.lastResult = &res
		return m, waitStreamMsg(m.stream)

	case rebuildStartedMsg:
		m.rebuilding = true
		return m, waitStreamMsg(m.stream)

	case reloadedMsg:
		m.finishDelete(msg)
		return m, nil
	}

	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Mode == session.Listing {
		switch {
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Details):
			m.showDetails = !m.showDetails
			return m, nil
		}
	}

	in, ok := m.keys.Input(m.state.Mode, msg)
	if !ok {
		return m, nil
	}

	prev := m.state
	next, effect := session.Transition(prev, in)
	m.state = next
	m.offset = uiutils.ScrollOffset(m.state.Cursor, m.offset, m.pageSize(), m.state.Catalog.Len())

	logger.Debug().
		Str("input", in.String()).
		Str("from", prev.Mode.String()).
		Str("to", next.Mode.String()).
		Int("cursor", next.Cursor).
		Msg("transition")

	switch {
	case next.Mode == session.Exited:
		return m, tea.Quit
	case effect == session.EffectDelete:
		return m, m.startDelete()
	case prev.Mode == session.ConfirmDelete && next.Mode == session.Listing:
		if in == session.Affirm {
			m.statusBar.SetMessage("Nothing selected")
		} else {
			m.statusBar.SetMessage("Deletion cancelled")
		}
	}

	return m, nil
}

// startDelete launches deletion of the selected entries followed by a
// rescan on a separate goroutine
func (m *AppModel) startDelete() tea.Cmd {
	job := deleteJob{
		entries:   m.state.Catalog.SelectedEntries(),
		root:      m.state.Catalog.Root,
		cleaner:   m.opts.Cleaner,
		builder:   m.opts.Builder,
		diskUsage: m.opts.DiskUsage,
	}

	m.inFlight = job.entries
	m.done = 0
	m.lastResult = nil
	m.rebuilding = false
	m.showDetails = false

	logger.Info().Int("count", len(job.entries)).Str("root", job.root).Msg("deleting selected directories")

	return tea.Batch(m.spinner.Tick, startDeleteCmd(job))
}

func (m *AppModel) finishDelete(msg reloadedMsg) {
	m.stream = nil
	m.mergeReport(msg.report)

	c := msg.catalog
	if msg.err != nil {
		logger.Error().Err(msg.err).Msg("rescan after delete failed")
		m.reloadErrors = append(m.reloadErrors, msg.err)
		c = catalog.New(m.state.Catalog.Root, nil)
	}
	if msg.disk != nil {
		m.disk = msg.disk
	}

	m.state = session.Reloaded(m.state, c)
	m.offset = 0

	switch {
	case msg.err != nil:
		m.statusBar.SetError(fmt.Sprintf("rescan failed: %v", msg.err))
	case msg.report.Failed > 0:
		m.statusBar.SetError(fmt.Sprintf("%d deleted, %d failed", msg.report.Deleted, msg.report.Failed))
	default:
		m.statusBar.SetMessage(fmt.Sprintf("%d deleted, %s freed", msg.report.Deleted, utils.FormatBytes(msg.report.FreedBytes)))
	}
}

func (m *AppModel) mergeReport(r *cleaner.Report) {
	if r == nil {
		return
	}
	if m.report == nil {
		m.report = &cleaner.Report{}
	}
	m.report.Results = append(m.report.Results, r.Results...)
	m.report.Deleted += r.Deleted
	m.report.Failed += r.Failed
	m.report.FreedBytes += r.FreedBytes
}

func (m *AppModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	if width > 0 {
		m.progress.Width = min(width-4, 60)
	}
	if m.state.Catalog != nil {
		m.offset = uiutils.ScrollOffset(m.state.Cursor, m.offset, m.pageSize(), m.state.Catalog.Len())
	}
}

func (m *AppModel) pageSize() int {
	if m.height <= 0 {
		return 20
	}
	return uiutils.CalculatePageSize(m.height)
}

// View renders the current mode
func (m *AppModel) View() string {
	var b strings.Builder

	if m.width > 0 && m.height > 0 {
		b.WriteString(uiutils.GetSizeWarningBanner(m.width, m.height))
	}
	b.WriteString(m.headerView())

	switch m.state.Mode {
	case session.Listing:
		b.WriteString(m.listView())
	case session.ConfirmDelete:
		b.WriteString(m.confirmView())
	case session.Loading:
		b.WriteString(m.cleanupView())
	case session.Exited:
		return ""
	}

	return b.String()
}

func (m *AppModel) headerView() string {
	c := m.state.Catalog
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("nmclean"))
	b.WriteString("\n")
	b.WriteString(styles.FilePathStyle.Render(c.Root))
	b.WriteString("\n")

	parts := []string{
		fmt.Sprintf("%d %s", c.Len(), plural(c.Len(), "directory", "directories")),
		fmt.Sprintf("%s total", utils.FormatBytes(c.TotalSize())),
	}
	if m.disk != nil {
		parts = append(parts, fmt.Sprintf("%s free of %s", utils.FormatBytes(m.disk.Free), utils.FormatBytes(m.disk.Total)))
	}
	if n := len(c.Skipped); n > 0 {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("%d unreadable skipped", n)))
	}
	b.WriteString(styles.DimStyle.Render(strings.Join(parts, " • ")))
	b.WriteString("\n\n")

	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
