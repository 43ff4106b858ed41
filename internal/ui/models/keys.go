package models

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/nmclean/internal/session"
)

// KeyMap binds keys to session inputs. Which bindings apply depends on the
// session mode.
type KeyMap struct {
	// Listing
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Mark    key.Binding
	Unmark  key.Binding
	Confirm key.Binding
	Quit    key.Binding

	// ConfirmDelete
	Affirm key.Binding
	Deny   key.Binding
	Cancel key.Binding

	// View only, never reach the session
	Details key.Binding
	Help    key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "shift+tab"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "tab"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		Mark: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "select"),
		),
		Unmark: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "unselect"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "delete selected"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
		Affirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes, delete"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "no"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc", "back"),
		),
		Details: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "details"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

// Input translates a key press into a session input for mode. The second
// result is false when the key means nothing to the session.
func (k KeyMap) Input(mode session.Mode, msg tea.KeyMsg) (session.Input, bool) {
	switch mode {
	case session.Listing:
		switch {
		case key.Matches(msg, k.Up):
			return session.Up, true
		case key.Matches(msg, k.Down):
			return session.Down, true
		case key.Matches(msg, k.Toggle):
			return session.Toggle, true
		case key.Matches(msg, k.Mark):
			return session.Mark, true
		case key.Matches(msg, k.Unmark):
			return session.Unmark, true
		case key.Matches(msg, k.Confirm):
			return session.Confirm, true
		case key.Matches(msg, k.Quit):
			return session.Quit, true
		}
	case session.ConfirmDelete:
		switch {
		case key.Matches(msg, k.Affirm):
			return session.Affirm, true
		case key.Matches(msg, k.Deny):
			return session.Deny, true
		case key.Matches(msg, k.Cancel):
			return session.Cancel, true
		}
	}
	return session.None, false
}

// ShortHelp implements help.KeyMap for the list
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Confirm, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap for the list
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.Mark, k.Unmark},
		{k.Confirm, k.Details},
		{k.Help, k.Quit},
	}
}

// confirmKeys is the help.KeyMap shown under the confirmation prompt
type confirmKeys struct {
	KeyMap
}

func (c confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{c.Affirm, c.Deny, c.Cancel}
}

func (c confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{c.ShortHelp()}
}
