package views

import (
	"fmt"
	"strings"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/chat"
	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TranscriptView displays the messages of one chat and a composer.
type TranscriptView struct {
	*tview.Flex
	theme    *ui.Theme
	markdown *Markdown
	messages *tview.TextView
	composer *tview.InputField
	title    string
	onSend   func(text string)
	onInput  func(text string)
	updating bool
}

// NewTranscriptView creates a new transcript view.
func NewTranscriptView(theme *ui.Theme, md *Markdown) *TranscriptView {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" " + chat.DefaultTitle + " ")
	messages.SetTitleColor(theme.TitleColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitle(" Compose (i to focus) ")
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	tv := &TranscriptView{
		Flex:     flex,
		theme:    theme,
		markdown: md,
		messages: messages,
		composer: composer,
		title:    chat.DefaultTitle,
	}

	composer.SetChangedFunc(func(text string) {
		if !tv.updating && tv.onInput != nil {
			tv.onInput(text)
		}
	})
	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && tv.onSend != nil {
			tv.onSend(composer.GetText())
		}
	})

	return tv
}

// Name implements Component.
func (tv *TranscriptView) Name() string { return tv.title }

// Hints implements Component.
func (tv *TranscriptView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "Enter", Description: "Send"},
		{Key: "r", Description: "Refresh"},
		{Key: "x", Description: "Dismiss error"},
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// SetOnSend sets the callback run when Enter is pressed in the composer.
func (tv *TranscriptView) SetOnSend(fn func(text string)) { tv.onSend = fn }

// SetOnInput sets the callback run when the composer text is edited.
func (tv *TranscriptView) SetOnInput(fn func(text string)) { tv.onInput = fn }

// Update renders a transcript snapshot. The composer text follows the
// snapshot so that a failed send puts the draft back.
func (tv *TranscriptView) Update(s chat.Snapshot) {
	tv.title = s.Title
	title := " " + cell(s.Title) + " "
	if s.Loading {
		title += "[::d]loading…[-:-:-] "
	}
	tv.messages.SetTitle(title)

	_, _, width, _ := tv.messages.GetInnerRect()
	tv.messages.Clear()
	_, _ = fmt.Fprint(tv.messages, tv.render(s, width))
	tv.messages.ScrollToEnd()

	if tv.composer.GetText() != s.Input {
		tv.updating = true
		tv.composer.SetText(s.Input)
		tv.updating = false
	}
	if s.Composing {
		tv.composer.SetTitle(" Sending… ")
	} else {
		tv.composer.SetTitle(" Compose (i to focus) ")
	}
}

func (tv *TranscriptView) render(s chat.Snapshot, width int) string {
	var b strings.Builder
	if len(s.Messages) == 0 && !s.Loading {
		fmt.Fprintf(&b, "[%s]No messages yet. Press i and say hello.[-]\n", ui.Color(tv.theme.MutedColor))
	}
	for _, m := range s.Messages {
		b.WriteString(tv.renderMessage(m, width))
		b.WriteString("\n")
	}
	if s.Composing {
		fmt.Fprintf(&b, "[%s::b]Assistant[-:-:-] [::d]is composing…[-:-:-]\n", ui.Color(tv.theme.AssistantColor))
	}
	if s.Error != "" {
		fmt.Fprintf(&b, "\n[%s::b]Error:[-:-:-] %s [::d](x to dismiss)[-:-:-]\n", ui.Color(tv.theme.FlashErrColor), cell(s.Error))
	}
	return b.String()
}

func (tv *TranscriptView) renderMessage(m api.Message, width int) string {
	var b strings.Builder
	switch m.Role {
	case api.RoleUser:
		fmt.Fprintf(&b, "[%s::b]You[-:-:-]", ui.Color(tv.theme.UserColor))
	case api.RoleAssistant:
		fmt.Fprintf(&b, "[%s::b]Assistant[-:-:-]", ui.Color(tv.theme.AssistantColor))
	default:
		fmt.Fprintf(&b, "[%s::b]%s[-:-:-]", ui.Color(tv.theme.MutedColor), cell(string(m.Role)))
	}
	if ts := formatTimestamp(m.CreatedAt); ts != "" {
		fmt.Fprintf(&b, " [::d]%s[-:-:-]", ts)
	}
	if md := m.Metadata; md != nil && md.Model != "" {
		fmt.Fprintf(&b, " [::d]%s[-:-:-]", cell(md.Model))
	}
	b.WriteString("\n")
	if m.Role == api.RoleAssistant && tv.markdown != nil {
		b.WriteString(tv.markdown.Render(m.Content, width-2))
	} else {
		b.WriteString(cell(m.Content))
	}
	b.WriteString("\n")
	return b.String()
}

// Messages returns the messages text view (for focus management).
func (tv *TranscriptView) Messages() *tview.TextView { return tv.messages }

// Composer returns the composer input field (for focus management).
func (tv *TranscriptView) Composer() *tview.InputField { return tv.composer }
