package ui

import "github.com/rivo/tview"

// Page is one entry of the navigation stack.
type Page struct {
	Name  string // tview page name
	Label string // crumb text
}

// Pages is a stack-based page manager wrapping tview.Pages.
// It provides push/pop semantics and notifies on stack changes.
type Pages struct {
	*tview.Pages
	stack    []Page
	onChange func(stack []Page)
}

// NewPages creates a new stack-based page manager.
func NewPages() *Pages {
	return &Pages{
		Pages: tview.NewPages(),
	}
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(stack []Page)) {
	p.onChange = fn
}

// Push shows name on top of the stack. label defaults to name.
func (p *Pages) Push(name, label string) {
	if label == "" {
		label = name
	}
	if len(p.stack) > 0 {
		p.HidePage(p.stack[len(p.stack)-1].Name)
	}
	p.stack = append(p.stack, Page{Name: name, Label: label})
	p.ShowPage(name)
	p.SendToFront(name)
	p.notify()
}

// Pop removes the top page and shows the previous one. The root page is
// never popped. Returns the name of the popped page, or empty.
func (p *Pages) Pop() string {
	if len(p.stack) <= 1 {
		return ""
	}
	top := p.stack[len(p.stack)-1]
	p.HidePage(top.Name)
	p.stack = p.stack[:len(p.stack)-1]
	current := p.stack[len(p.stack)-1].Name
	p.ShowPage(current)
	p.SendToFront(current)
	p.notify()
	return top.Name
}

// PopTo pops until name is on top. It is a no-op if name is not stacked.
func (p *Pages) PopTo(name string) []string {
	if !p.Contains(name) {
		return nil
	}
	var popped []string
	for p.Current() != name {
		popped = append(popped, p.Pop())
	}
	return popped
}

// Current returns the name of the current (top) page.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1].Name
}

// Contains reports whether name is on the stack.
func (p *Pages) Contains(name string) bool {
	for _, pg := range p.stack {
		if pg.Name == name {
			return true
		}
	}
	return false
}

// Stack returns a copy of the current page stack.
func (p *Pages) Stack() []Page {
	s := make([]Page, len(p.stack))
	copy(s, p.stack)
	return s
}

// Relabel changes the crumb text of name if it is stacked.
func (p *Pages) Relabel(name, label string) {
	for i := range p.stack {
		if p.stack[i].Name == name && p.stack[i].Label != label {
			p.stack[i].Label = label
			p.notify()
			return
		}
	}
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// Reset clears the stack and shows only the given page.
func (p *Pages) Reset(name, label string) {
	for _, pg := range p.stack {
		p.HidePage(pg.Name)
	}
	if label == "" {
		label = name
	}
	p.stack = []Page{{Name: name, Label: label}}
	p.ShowPage(name)
	p.SendToFront(name)
	p.notify()
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}
