package views

import (
	"fmt"
	"strings"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/rivo/tview"
)

// ProjectInfo displays detailed information about a project.
type ProjectInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewProjectInfo creates a new project info view.
func NewProjectInfo(theme *ui.Theme) *ProjectInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Project Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ProjectInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (pi *ProjectInfo) Name() string { return "Details" }

// Hints implements Component.
func (pi *ProjectInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// Update renders project details.
func (pi *ProjectInfo) Update(p *api.Project, chats, files int) {
	pi.Clear()
	if p == nil {
		return
	}
	_, _ = fmt.Fprint(pi, projectDetails(pi.theme, *p, chats, files))
	pi.SetTitle(fmt.Sprintf(" %s Details ", cell(p.Name)))
}

func projectDetails(theme *ui.Theme, p api.Project, chats, files int) string {
	fg := ui.Color(theme.FgColor)
	ct := ui.Color(theme.CounterColor)

	orDash := func(s string) string {
		if s = strings.TrimSpace(s); s == "" {
			return "-"
		}
		return cell(s)
	}
	provider := p.AIProvider
	model := ""
	if s := p.AISettings; s != nil {
		model = s.Model
	}

	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, " [%s::b]%-14s[-:-:-] [%s]%s[-]\n", fg, label+":", ct, value)
	}
	b.WriteString("\n")
	row("Name", cell(p.Name))
	row("ID", cell(p.ID))
	row("Description", orDash(p.Description))
	row("Provider", orDash(provider))
	row("Model", orDash(model))
	row("Chats", itoa(chats))
	row("Context files", itoa(files))
	row("Created", orDash(formatTimestamp(p.CreatedAt)))
	row("Updated", orDash(formatTimestamp(p.UpdatedAt)))
	if ins := strings.TrimSpace(p.ContextInstructions); ins != "" {
		fmt.Fprintf(&b, "\n [%s::b]Instructions[-:-:-]\n %s\n", fg, cell(ins))
	}
	return b.String()
}
