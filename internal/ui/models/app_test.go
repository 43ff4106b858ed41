package models

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/nmclean/internal/catalog"
	"github.com/fenilsonani/nmclean/internal/cleaner"
	"github.com/fenilsonani/nmclean/internal/platform"
	"github.com/fenilsonani/nmclean/internal/session"
	"github.com/fenilsonani/nmclean/internal/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestKeyMapInput(t *testing.T) {
	k := DefaultKeyMap()

	tests := []struct {
		name string
		mode session.Mode
		msg  tea.KeyMsg
		want session.Input
		ok   bool
	}{
		{"listing up arrow", session.Listing, keyUp, session.Up, true},
		{"listing k", session.Listing, runes("k"), session.Up, true},
		{"listing shift+tab", session.Listing, tea.KeyMsg{Type: tea.KeyShiftTab}, session.Up, true},
		{"listing down arrow", session.Listing, keyDown, session.Down, true},
		{"listing j", session.Listing, runes("j"), session.Down, true},
		{"listing tab", session.Listing, tea.KeyMsg{Type: tea.KeyTab}, session.Down, true},
		{"listing space", session.Listing, keySpace, session.Toggle, true},
		{"listing l", session.Listing, runes("l"), session.Mark, true},
		{"listing right", session.Listing, tea.KeyMsg{Type: tea.KeyRight}, session.Mark, true},
		{"listing h", session.Listing, runes("h"), session.Unmark, true},
		{"listing left", session.Listing, tea.KeyMsg{Type: tea.KeyLeft}, session.Unmark, true},
		{"listing enter", session.Listing, keyEnter, session.Confirm, true},
		{"listing q", session.Listing, runes("q"), session.Quit, true},
		{"listing esc", session.Listing, keyEsc, session.Quit, true},
		{"listing ctrl+c", session.Listing, tea.KeyMsg{Type: tea.KeyCtrlC}, session.Quit, true},
		{"listing y means nothing", session.Listing, runes("y"), session.None, false},
		{"confirm y", session.ConfirmDelete, runes("y"), session.Affirm, true},
		{"confirm Y", session.ConfirmDelete, runes("Y"), session.Affirm, true},
		{"confirm n", session.ConfirmDelete, runes("n"), session.Deny, true},
		{"confirm N", session.ConfirmDelete, runes("N"), session.Deny, true},
		{"confirm esc", session.ConfirmDelete, keyEsc, session.Cancel, true},
		{"confirm q", session.ConfirmDelete, runes("q"), session.Cancel, true},
		{"confirm enter means nothing", session.ConfirmDelete, keyEnter, session.None, false},
		{"confirm space means nothing", session.ConfirmDelete, keySpace, session.None, false},
		{"loading ignores keys", session.Loading, runes("q"), session.None, false},
		{"exited ignores keys", session.Exited, keyEnter, session.None, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := k.Input(tt.mode, tt.msg)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Input(%s, %q) = %s, %v; want %s, %v", tt.mode, tt.msg.String(), got, ok, tt.want, tt.ok)
			}
		})
	}
}

type appFixture struct {
	fx    *testutil.TestFixture
	rec   *testutil.RecordingFs
	model *AppModel
	a, b  string
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()

	fx := testutil.NewMemFixture(t)
	a := fx.CreateNodeModules("a", 1000)
	b := fx.CreateNodeModules("b", 400)
	rec := testutil.NewRecordingFs(fx.Fs)

	builder := &catalog.Builder{Fs: rec, Workers: 2}
	c, err := builder.Build(fx.RootDir)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if c.Len() != 2 || c.Entries[0].Path != a || c.Entries[1].Path != b {
		t.Fatalf("unexpected catalog: %+v", c.Entries)
	}

	m := NewAppModel(Options{
		Catalog: c,
		Builder: builder,
		Cleaner: cleaner.New(rec, cleaner.Options{}),
		DiskUsage: func(path string) (*platform.DiskUsage, error) {
			return &platform.DiskUsage{Path: path, Total: 1 << 30, Free: 1 << 29}, nil
		},
		Width:  100,
		Height: 30,
	})

	return &appFixture{fx: fx, rec: rec, model: m, a: a, b: b}
}

func (f *appFixture) press(t *testing.T, msgs ...tea.KeyMsg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = f.model.Update(msg)
	}
	return cmd
}

// drain runs cmd and every command it leads to, feeding messages back into
// the model. Spinner ticks are dropped so the loop terminates.
func drain(t *testing.T, m *AppModel, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("command chain did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg:
		default:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func TestDeleteFlowRemovesOnlySelected(t *testing.T) {
	f := newAppFixture(t)

	f.press(t, keyDown, keySpace)
	if !f.model.State().Catalog.IsSelected(1) || f.model.State().Catalog.IsSelected(0) {
		t.Fatal("expected only the second entry to be selected")
	}
	if !strings.Contains(f.model.View(), "[x]") {
		t.Error("list should show a checked marker")
	}

	f.press(t, keyEnter)
	if got := f.model.State().Mode; got != session.ConfirmDelete {
		t.Fatalf("mode = %s, want ConfirmDelete", got)
	}
	if view := f.model.View(); !strings.Contains(view, "Permanently delete 1 directory") {
		t.Errorf("confirm view missing prompt:\n%s", view)
	}

	cmd := f.press(t, runes("y"))
	if got := f.model.State().Mode; got != session.Loading {
		t.Fatalf("mode = %s, want Loading", got)
	}
	if cmd == nil {
		t.Fatal("affirm should start the delete")
	}
	drain(t, f.model, cmd)

	if removed := f.rec.Removed(); len(removed) != 1 || removed[0] != f.b {
		t.Errorf("RemoveAll calls = %v, want [%s]", removed, f.b)
	}
	f.fx.AssertExists(f.a)
	f.fx.AssertNotExists(f.b)

	st := f.model.State()
	if st.Mode != session.Listing {
		t.Errorf("mode = %s, want Listing", st.Mode)
	}
	if st.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", st.Cursor)
	}
	if st.Catalog.Len() != 1 || st.Catalog.Entries[0].Path != f.a {
		t.Errorf("reloaded catalog = %+v, want only %s", st.Catalog.Entries, f.a)
	}
	if st.Catalog.SelectedCount() != 0 {
		t.Error("reloaded catalog should have nothing selected")
	}

	out := f.model.Outcome()
	if out.Report == nil {
		t.Fatal("expected a report")
	}
	if out.Report.Deleted != 1 || out.Report.Failed != 0 || out.Report.FreedBytes != 400 {
		t.Errorf("report = %d deleted, %d failed, %d freed", out.Report.Deleted, out.Report.Failed, out.Report.FreedBytes)
	}
	if len(out.ReloadErrors) != 0 {
		t.Errorf("unexpected reload errors: %v", out.ReloadErrors)
	}
}

func TestDeleteFlowReportsFailure(t *testing.T) {
	f := newAppFixture(t)
	f.fx.Fs.RemoveAll(f.b)

	f.press(t, keyDown, runes("l"), keyEnter)
	drain(t, f.model, f.press(t, runes("y")))

	out := f.model.Outcome()
	if out.Report == nil || out.Report.Failed != 1 || out.Report.Deleted != 0 {
		t.Fatalf("report = %+v, want one failure", out.Report)
	}
	if reason := out.Report.Results[0].Err.Reason; reason != cleaner.ErrorFileNotFound {
		t.Errorf("reason = %s, want %s", reason, cleaner.ErrorFileNotFound)
	}
	if len(f.rec.Removed()) != 0 {
		t.Errorf("vanished entry should not reach RemoveAll, got %v", f.rec.Removed())
	}
	if f.model.State().Mode != session.Listing {
		t.Errorf("mode = %s, want Listing", f.model.State().Mode)
	}
}

func TestAffirmWithNothingSelected(t *testing.T) {
	f := newAppFixture(t)

	cmd := f.press(t, keyEnter, runes("y"))
	if cmd != nil {
		t.Error("affirm with nothing selected should not start work")
	}
	if f.model.State().Mode != session.Listing {
		t.Errorf("mode = %s, want Listing", f.model.State().Mode)
	}
	if len(f.rec.Removed()) != 0 {
		t.Errorf("unexpected RemoveAll calls: %v", f.rec.Removed())
	}
	if f.model.Outcome().Report != nil {
		t.Error("no report expected without a delete")
	}
}

func TestDenyKeepsSelection(t *testing.T) {
	f := newAppFixture(t)

	f.press(t, keySpace, keyEnter, runes("n"))
	st := f.model.State()
	if st.Mode != session.Listing {
		t.Errorf("mode = %s, want Listing", st.Mode)
	}
	if !st.Catalog.IsSelected(0) {
		t.Error("deny should keep the selection")
	}
	if !strings.Contains(f.model.View(), "Deletion cancelled") {
		t.Error("expected a cancellation message")
	}
}

func TestLoadingIgnoresKeys(t *testing.T) {
	f := newAppFixture(t)

	f.press(t, keySpace, keyEnter, runes("y"))
	if f.model.State().Mode != session.Loading {
		t.Fatalf("mode = %s, want Loading", f.model.State().Mode)
	}

	for _, msg := range []tea.KeyMsg{runes("q"), keyEsc, tea.KeyMsg{Type: tea.KeyCtrlC}, keyDown} {
		if cmd := f.press(t, msg); cmd != nil {
			t.Errorf("key %q produced a command while loading", msg.String())
		}
		if f.model.State().Mode != session.Loading {
			t.Fatalf("key %q left Loading", msg.String())
		}
	}

	if !strings.Contains(f.model.View(), "Deleting 0/1") {
		t.Errorf("loading view should show progress:\n%s", f.model.View())
	}
}

func TestQuit(t *testing.T) {
	f := newAppFixture(t)

	cmd := f.press(t, runes("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit should return tea.Quit")
	}
	if f.model.State().Mode != session.Exited {
		t.Errorf("mode = %s, want Exited", f.model.State().Mode)
	}
}

func TestViewShowsRelativePathsAndDisk(t *testing.T) {
	f := newAppFixture(t)
	drain(t, f.model, f.model.Init())

	view := f.model.View()
	for _, want := range []string{
		filepath.Join("a", "node_modules"),
		filepath.Join("b", "node_modules"),
		"2 directories",
		"free of",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestEmptyCatalogAffordance(t *testing.T) {
	m := NewAppModel(Options{Catalog: catalog.New("/work", nil), Width: 80, Height: 24})

	if !strings.Contains(m.View(), "No node_modules left") {
		t.Errorf("expected the empty affordance:\n%s", m.View())
	}

	_, cmd := m.Update(keyDown)
	if cmd != nil || m.State().Cursor != 0 {
		t.Error("navigation on an empty list should do nothing")
	}
}

func TestDetailsToggle(t *testing.T) {
	f := newAppFixture(t)

	f.press(t, runes("i"))
	if !strings.Contains(f.model.View(), "Share of total") {
		t.Error("details panel should be visible after i")
	}
	f.press(t, runes("i"))
	if strings.Contains(f.model.View(), "Share of total") {
		t.Error("details panel should hide on second i")
	}
}
