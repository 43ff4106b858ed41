package components

import (
	"strings"
	"testing"

	"github.com/fenilsonani/nmclean/internal/catalog"
)

func TestStatusBarRender(t *testing.T) {
	s := NewStatusBar()
	s.SetMode("listing")
	s.SetSelection(2, 5, 11_000_000)
	s.SetMessage("3 deleted")

	out := s.Render(100)
	for _, want := range []string{"LISTING", "2/5 selected", "11 MB", "3 deleted"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q: %q", want, out)
		}
	}
}

func TestStatusBarError(t *testing.T) {
	s := NewStatusBar()
	s.SetError("reload failed")

	if !strings.Contains(s.Render(0), "reload failed") {
		t.Error("expected error message in status bar")
	}
}

func TestInfoPanelHiddenByDefault(t *testing.T) {
	p := NewInfoPanel("Details", 80)
	p.AddItem("Path", "/work/a/node_modules")

	if p.IsVisible() || p.Render() != "" {
		t.Error("panel should render nothing until made visible")
	}

	p.Toggle()
	if !p.IsVisible() || !strings.Contains(p.Render(), "/work/a/node_modules") {
		t.Error("visible panel should render its items")
	}
}

func TestEntryInfoPanel(t *testing.T) {
	entry := catalog.Entry{Path: "/work/app/node_modules", SizeBytes: 2_500_000}
	p := EntryInfoPanel(entry, true, 10_000_000, 120)
	p.SetVisible(true)

	out := p.Render()
	for _, want := range []string{"/work/app", "2.5 MB", "25.0%", "yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}
}
