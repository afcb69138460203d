package views

import (
	"fmt"

	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (hv *HelpView) render() {
	kc := ui.Color(hv.theme.MenuKeyColor)

	help := fmt.Sprintf(`
  [::b]Global Keys[-:-:-]

  [%[1]s]:[-:-:-]      Command mode        [%[1]s]Esc[-:-:-]    Cancel / Go back
  [%[1]s]/[-:-:-]      Filter mode         [%[1]s]?[-:-:-]      Help
  [%[1]s]q[-:-:-]      Quit / Back         [%[1]s]Ctrl-C[-:-:-] Quit immediately
  [%[1]s]x[-:-:-]      Dismiss error       [%[1]s]r[-:-:-]      Refresh

  [::b]Projects[-:-:-]

  [%[1]s]Enter[-:-:-]  Open project        [%[1]s]n[-:-:-]      New project
  [%[1]s]1-9[-:-:-]    Jump to Nth project [%[1]s]0[-:-:-]      Clear filter
  [%[1]s]j/Down[-:-:-] Move down           [%[1]s]k/Up[-:-:-]   Move up

  [::b]Project[-:-:-]

  [%[1]s]Enter[-:-:-]  Open chat           [%[1]s]n[-:-:-]      New chat
  [%[1]s]Tab[-:-:-]    Chats / Files       [%[1]s]Space[-:-:-]  Select file for generation
  [%[1]s]u[-:-:-]      Upload file         [%[1]s]D[-:-:-]      Delete file
  [%[1]s]g[-:-:-]      Generate            [%[1]s]d[-:-:-]      Project details

  [::b]Chat[-:-:-]

  [%[1]s]i[-:-:-]      Focus composer      [%[1]s]Enter[-:-:-]  Send message (in composer)
  [%[1]s]Esc[-:-:-]    Exit composer       [%[1]s]r[-:-:-]      Reload messages

  [::b]Commands (: mode)[-:-:-]

  [%[1]s]:project <name>[-:-:-]        Open project by name
  [%[1]s]:chat <name>[-:-:-]           Open chat of the current project
  [%[1]s]:upload <path> [name[][-:-:-] Upload a context file
  [%[1]s]:refresh[-:-:-]               Reload the current page
  [%[1]s]:help[-:-:-] / [%[1]s]:h[-:-:-]            Show this help
  [%[1]s]:quit[-:-:-] / [%[1]s]:q[-:-:-]            Quit application
`, kc)

	_, _ = fmt.Fprint(hv, help)
}
