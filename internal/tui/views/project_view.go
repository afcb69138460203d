package views

import (
	"fmt"
	"strings"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/contextfiles"
	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ProjectView is the page of one open project: its chats on the left, its
// context files and a scratch generation panel on the right.
type ProjectView struct {
	*tview.Flex
	theme    *ui.Theme
	markdown *Markdown
	project  api.Project

	Chats  *ChatList
	Files  *FileList
	prompt *tview.InputField
	output *tview.TextView

	onGenerate func(prompt string)
}

// NewProjectView creates the project page.
func NewProjectView(theme *ui.Theme, md *Markdown) *ProjectView {
	prompt := tview.NewInputField().
		SetLabel(" ? ").
		SetFieldWidth(0)
	prompt.SetBorder(true)
	prompt.SetBorderColor(theme.BorderColor)
	prompt.SetBackgroundColor(theme.BgColor)
	prompt.SetFieldBackgroundColor(theme.BgColor)
	prompt.SetFieldTextColor(theme.FgColor)
	prompt.SetLabelColor(theme.MenuKeyColor)
	prompt.SetTitle(" Generate with selected files (g to focus) ")
	prompt.SetTitleColor(theme.TitleColor)

	output := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	output.SetBorder(true)
	output.SetBorderColor(theme.BorderColor)
	output.SetBackgroundColor(theme.BgColor)
	output.SetTextColor(theme.FgColor)
	output.SetTitle(" Output ")
	output.SetTitleColor(theme.TitleColor)

	pv := &ProjectView{
		theme:    theme,
		markdown: md,
		Chats:    NewChatList(theme),
		Files:    NewFileList(theme),
		prompt:   prompt,
		output:   output,
	}

	prompt.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && pv.onGenerate != nil {
			pv.onGenerate(prompt.GetText())
		}
	})

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(pv.Files, 0, 1, false).
		AddItem(prompt, 3, 0, false).
		AddItem(output, 0, 1, false)

	pv.Flex = tview.NewFlex().
		AddItem(pv.Chats, 0, 1, true).
		AddItem(right, 0, 1, false)
	return pv
}

// Name implements Component.
func (pv *ProjectView) Name() string {
	if pv.project.Name != "" {
		return pv.project.Name
	}
	return "Project"
}

// Hints implements Component.
func (pv *ProjectView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open chat"},
		{Key: "n", Description: "New chat"},
		{Key: "Tab", Description: "Chats/Files"},
		{Key: "Space", Description: "Select file"},
		{Key: "u", Description: "Upload"},
		{Key: "D", Description: "Delete file"},
		{Key: "g", Description: "Generate"},
		{Key: "d", Description: "Details"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetProject sets the project shown by the page.
func (pv *ProjectView) SetProject(p api.Project) {
	pv.project = p
	pv.prompt.SetText("")
	pv.output.Clear()
}

// SetOnGenerate sets the callback run when a prompt is submitted.
func (pv *ProjectView) SetOnGenerate(fn func(prompt string)) { pv.onGenerate = fn }

// UpdateFiles renders the context file state and the last generation.
func (pv *ProjectView) UpdateFiles(s contextfiles.Snapshot) {
	pv.Files.Update(s)

	var b strings.Builder
	switch {
	case s.Generating:
		b.WriteString("[::d]Generating…[-:-:-]\n")
	case s.LastResult != nil:
		_, _, width, _ := pv.output.GetInnerRect()
		b.WriteString(pv.markdown.Render(s.LastResult.Content, width-2))
		b.WriteString("\n")
		if u := s.LastResult.Usage; u != nil {
			fmt.Fprintf(&b, "\n[%s]%s · %d tokens[-]\n", ui.Color(pv.theme.MutedColor), cell(s.LastResult.Model), u.TotalTokens)
		}
	}
	if s.Error != "" {
		fmt.Fprintf(&b, "\n[%s::b]Error:[-:-:-] %s [::d](x to dismiss)[-:-:-]\n", ui.Color(pv.theme.FlashErrColor), cell(s.Error))
	}
	pv.output.Clear()
	_, _ = fmt.Fprint(pv.output, b.String())
	pv.output.ScrollToBeginning()
}

// FocusTargets returns the panes Tab cycles through.
func (pv *ProjectView) FocusTargets() []tview.Primitive {
	return []tview.Primitive{pv.Chats, pv.Files}
}

// Prompt returns the generation prompt field (for focus management).
func (pv *ProjectView) Prompt() *tview.InputField { return pv.prompt }

// Output returns the generation output view.
func (pv *ProjectView) Output() *tview.TextView { return pv.output }
