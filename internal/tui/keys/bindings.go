package keys

import (
	"sort"

	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/gdamore/tcell/v2"
)

// Action represents a keybinding action.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Label       string // key as shown in the menu, e.g. "Space"
	Description string
	Handler     func()
	Visible     bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

func (a *Action) label() string {
	if a.Label != "" {
		return a.Label
	}
	if a.Key == tcell.KeyRune {
		return string(a.Rune)
	}
	return tcell.KeyNames[a.Key]
}

// Registry holds keybindings organized by scope.
type Registry struct {
	Global map[string]*Action
	Views  map[string]map[string]*Action
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{
		Global: make(map[string]*Action),
		Views:  make(map[string]map[string]*Action),
	}
}

// AddGlobal registers a global keybinding.
func (r *Registry) AddGlobal(name string, action *Action) {
	r.Global[name] = action
}

// AddView registers a view-specific keybinding.
func (r *Registry) AddView(view, name string, action *Action) {
	if r.Views[view] == nil {
		r.Views[view] = make(map[string]*Action)
	}
	r.Views[view][name] = action
}

// Hints returns the visible bindings of a view followed by the visible
// global ones, each group sorted by name.
func (r *Registry) Hints(view string) []ui.MenuHint {
	var hints []ui.MenuHint
	for _, a := range sorted(r.Views[view]) {
		if a.Visible {
			hints = append(hints, ui.MenuHint{Key: a.label(), Description: a.Description})
		}
	}
	for _, a := range sorted(r.Global) {
		if a.Visible {
			hints = append(hints, ui.MenuHint{Key: a.label(), Description: a.Description})
		}
	}
	return hints
}

// HandleEvent dispatches a key event to matching action in the given view.
// Returns true if a handler matched.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	// Check view-specific bindings first.
	for _, a := range sorted(r.Views[view]) {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	for _, a := range sorted(r.Global) {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	return false
}

func sorted(m map[string]*Action) []*Action {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Action, 0, len(names))
	for _, name := range names {
		out = append(out, m[name])
	}
	return out
}
