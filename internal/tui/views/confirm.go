package views

import (
	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/rivo/tview"
)

// Confirm is a yes/no modal.
type Confirm struct {
	*tview.Modal
	onAnswer func(yes bool)
}

// NewConfirm creates the confirmation modal.
func NewConfirm(theme *ui.Theme) *Confirm {
	m := tview.NewModal().
		AddButtons([]string{"Delete", "Cancel"})
	m.SetBackgroundColor(theme.BgColor)
	m.SetTextColor(theme.FgColor)
	m.SetBorderColor(theme.FlashErrColor)
	m.SetButtonBackgroundColor(theme.BorderColor)

	c := &Confirm{Modal: m}
	m.SetDoneFunc(func(_ int, label string) {
		if c.onAnswer != nil {
			c.onAnswer(label == "Delete")
		}
	})
	return c
}

// Name implements Component.
func (c *Confirm) Name() string { return "Confirm" }

// Hints implements Component.
func (c *Confirm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "←/→", Description: "Choose"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// Ask shows text and calls fn with the answer. Esc answers no.
func (c *Confirm) Ask(text string, fn func(yes bool)) {
	c.SetText(text)
	c.SetFocus(1)
	c.onAnswer = fn
}
