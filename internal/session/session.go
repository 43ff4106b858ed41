// Package session is the selection state machine behind the interactive
// list. Transition is pure: it never touches the filesystem and never
// mutates the state it is given. Side effects are requested through the
// returned Effect and performed by the caller.
package session

import "github.com/fenilsonani/nmclean/internal/catalog"

// Mode is the session's current mode
type Mode int

const (
	Listing Mode = iota
	Loading
	ConfirmDelete
	Exited
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case Listing:
		return "listing"
	case Loading:
		return "loading"
	case ConfirmDelete:
		return "confirm-delete"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// Input is an abstract operator action
type Input int

const (
	None Input = iota
	Quit
	Confirm
	Up
	Down
	Mark
	Unmark
	Toggle
	Affirm
	Deny
	Cancel
)

// String returns the input name
func (i Input) String() string {
	switch i {
	case None:
		return "none"
	case Quit:
		return "quit"
	case Confirm:
		return "confirm"
	case Up:
		return "up"
	case Down:
		return "down"
	case Mark:
		return "mark"
	case Unmark:
		return "unmark"
	case Toggle:
		return "toggle"
	case Affirm:
		return "affirm"
	case Deny:
		return "deny"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Effect is work the caller must perform after a transition
type Effect int

const (
	EffectNone Effect = iota
	// EffectDelete asks the caller to delete the selected entries of the
	// returned state's catalog, rebuild the catalog and call Reloaded.
	EffectDelete
)

// State is one snapshot of the session
type State struct {
	Mode    Mode
	Catalog *catalog.Catalog
	Cursor  int
}

// New starts a session listing c with the cursor on the first entry
func New(c *catalog.Catalog) State {
	return State{Mode: Listing, Catalog: c}
}

// Current returns the entry under the cursor
func (s State) Current() (catalog.Entry, bool) {
	if s.Catalog.Empty() || s.Cursor < 0 || s.Cursor >= s.Catalog.Len() {
		return catalog.Entry{}, false
	}
	return s.Catalog.Entries[s.Cursor], true
}

// Transition applies in to s and returns the next state and any effect
func Transition(s State, in Input) (State, Effect) {
	switch s.Mode {
	case Listing:
		return listing(s, in), EffectNone
	case ConfirmDelete:
		return confirmDelete(s, in)
	default:
		// Loading is not cancellable and Exited is terminal.
		return s, EffectNone
	}
}

func listing(s State, in Input) State {
	n := s.Catalog.Len()

	switch in {
	case Quit:
		s.Mode = Exited
	case Confirm:
		s.Mode = ConfirmDelete
	case Up:
		if n > 0 {
			s.Cursor = (s.Cursor - 1 + n) % n
		}
	case Down:
		if n > 0 {
			s.Cursor = (s.Cursor + 1) % n
		}
	case Mark:
		if n > 0 {
			s.Catalog = s.Catalog.WithSelection(s.Cursor, true)
		}
	case Unmark:
		if n > 0 {
			s.Catalog = s.Catalog.WithSelection(s.Cursor, false)
		}
	case Toggle:
		if n > 0 {
			s.Catalog = s.Catalog.WithSelection(s.Cursor, !s.Catalog.IsSelected(s.Cursor))
		}
	}
	return s
}

func confirmDelete(s State, in Input) (State, Effect) {
	switch in {
	case Affirm:
		if s.Catalog.SelectedCount() == 0 {
			s.Mode = Listing
			return s, EffectNone
		}
		s.Mode = Loading
		return s, EffectDelete
	case Deny, Cancel:
		s.Mode = Listing
	}
	return s, EffectNone
}

// Reloaded finishes a Loading state with the rebuilt catalog c. The new
// catalog starts with nothing selected and the cursor on the first entry.
// States in any other mode are returned unchanged.
func Reloaded(s State, c *catalog.Catalog) State {
	if s.Mode != Loading {
		return s
	}
	return State{Mode: Listing, Catalog: c}
}
