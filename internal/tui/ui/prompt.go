package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PromptMode indicates the type of prompt (command or filter).
type PromptMode int

const (
	PromptCommand PromptMode = iota
	PromptFilter
)

// maxHistory bounds the remembered commands.
const maxHistory = 50

// Prompt is a command/filter input bar. Submitted commands are kept in a
// history navigable with Up and Down.
type Prompt struct {
	*tview.InputField
	theme    *Theme
	mode     PromptMode
	history  []string
	cursor   int
	onSubmit func(mode PromptMode, text string)
	onChange func(mode PromptMode, text string)
	onCancel func()
}

// NewPrompt creates a new prompt input bar.
func NewPrompt(theme *Theme) *Prompt {
	input := tview.NewInputField()
	input.SetBorder(true)
	input.SetBorderColor(theme.PromptBorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	p := &Prompt{
		InputField: input,
		theme:      theme,
	}

	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := p.GetText()
			if text != "" && p.mode == PromptCommand {
				p.remember(text)
			}
			if p.onSubmit != nil && text != "" {
				p.onSubmit(p.mode, text)
			}
			p.SetText("")
		case tcell.KeyEscape:
			p.SetText("")
			if p.onCancel != nil {
				p.onCancel()
			}
		}
	})
	input.SetChangedFunc(func(text string) {
		if p.onChange != nil {
			p.onChange(p.mode, text)
		}
	})
	input.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if p.mode != PromptCommand {
			return ev
		}
		switch ev.Key() {
		case tcell.KeyUp:
			p.SetText(p.Previous())
			return nil
		case tcell.KeyDown:
			p.SetText(p.Next())
			return nil
		}
		return ev
	})

	return p
}

// SetOnSubmit sets the callback when the prompt is submitted.
func (p *Prompt) SetOnSubmit(fn func(mode PromptMode, text string)) {
	p.onSubmit = fn
}

// SetOnChange sets the callback fired on every edit (live filtering).
func (p *Prompt) SetOnChange(fn func(mode PromptMode, text string)) {
	p.onChange = fn
}

// SetOnCancel sets the callback when the prompt is cancelled.
func (p *Prompt) SetOnCancel(fn func()) {
	p.onCancel = fn
}

// Activate shows the prompt in the specified mode.
func (p *Prompt) Activate(mode PromptMode) {
	p.mode = mode
	p.cursor = len(p.history)
	p.SetText("")
	switch mode {
	case PromptCommand:
		p.SetLabel(":")
		p.SetTitle(" Command ")
	case PromptFilter:
		p.SetLabel("/")
		p.SetTitle(" Filter ")
	}
}

// Mode returns the current prompt mode.
func (p *Prompt) Mode() PromptMode {
	return p.mode
}

func (p *Prompt) remember(text string) {
	if n := len(p.history); n > 0 && p.history[n-1] == text {
		p.cursor = n
		return
	}
	p.history = append(p.history, text)
	if len(p.history) > maxHistory {
		p.history = p.history[len(p.history)-maxHistory:]
	}
	p.cursor = len(p.history)
}

// Previous steps back in history and returns the entry, or "" at the start
// of an empty history.
func (p *Prompt) Previous() string {
	if len(p.history) == 0 {
		return ""
	}
	if p.cursor > 0 {
		p.cursor--
	}
	return p.history[p.cursor]
}

// Next steps forward in history; past the newest entry it returns "".
func (p *Prompt) Next() string {
	if p.cursor < len(p.history) {
		p.cursor++
	}
	if p.cursor == len(p.history) {
		return ""
	}
	return p.history[p.cursor]
}
