package views

import (
	"fmt"
	"strconv"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/store"
	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ProjectList is the root page: every project with a live filter.
type ProjectList struct {
	*tview.Table
	theme   *ui.Theme
	state   store.State[api.Project]
	filter  string
	visible []api.Project
}

// NewProjectList creates a new project list table.
func NewProjectList(theme *ui.Theme) *ProjectList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	pl := &ProjectList{
		Table: table,
		theme: theme,
	}
	pl.render()
	return pl
}

// Name implements Component.
func (pl *ProjectList) Name() string { return "Projects" }

// Hints implements Component.
func (pl *ProjectList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "n", Description: "New project"},
		{Key: "r", Description: "Refresh"},
		{Key: "/", Description: "Filter"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
		{Key: "q", Description: "Quit"},
		{Key: "1-9", Description: "Jump", Numeric: true},
	}
}

// Update renders a store snapshot.
func (pl *ProjectList) Update(s store.State[api.Project]) {
	pl.state = s
	pl.render()
}

// SetFilter sets the active filter text and re-renders.
func (pl *ProjectList) SetFilter(filter string) {
	pl.filter = filter
	pl.render()
}

// ClearFilter clears the active filter.
func (pl *ProjectList) ClearFilter() {
	pl.SetFilter("")
}

func (pl *ProjectList) matches(p api.Project) bool {
	return pl.filter == "" || containsFold(p.Name, pl.filter) || containsFold(p.Description, pl.filter)
}

func (pl *ProjectList) render() {
	row, _ := pl.GetSelection()
	pl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" #", 0},
		{" NAME", 1},
		{" DESCRIPTION", 2},
		{" FILES", 0},
		{" CREATED", 0},
	}
	for col, h := range headers {
		pl.SetCell(0, col, tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(pl.theme.TableHeaderFg).
			SetBackgroundColor(pl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp))
	}

	pl.visible = pl.visible[:0]
	for _, p := range pl.state.Data {
		if pl.matches(p) {
			pl.visible = append(pl.visible, p)
		}
	}
	for i, p := range pl.visible {
		r := i + 1
		pl.SetCell(r, 0, tview.NewTableCell(" "+strconv.Itoa(r)).SetTextColor(pl.theme.NumericKeyColor))
		pl.SetCell(r, 1, tview.NewTableCell(" "+cell(p.Name)).SetExpansion(1).SetTextColor(pl.theme.FgColor))
		pl.SetCell(r, 2, tview.NewTableCell(" "+cell(firstLine(p.Description))).SetExpansion(2).SetTextColor(pl.theme.FgColor))
		pl.SetCell(r, 3, tview.NewTableCell(strconv.Itoa(len(p.ContextFiles))).SetAlign(tview.AlignRight).SetTextColor(pl.theme.FgColor))
		pl.SetCell(r, 4, tview.NewTableCell(" "+formatTimestamp(p.CreatedAt)).SetAlign(tview.AlignRight).SetTextColor(pl.theme.FgColor))
	}
	if len(pl.visible) == 0 {
		empty := "No projects yet. Press n to create one."
		if pl.filter != "" {
			empty = "No project matches the filter."
		}
		pl.SetCell(1, 1, tview.NewTableCell(" "+empty).SetSelectable(false).SetTextColor(pl.theme.MutedColor))
	}

	pl.SetTitle(listTitle("Projects", len(pl.visible), len(pl.state.Data), pl.filter, pl.state.Loading))
	if row > len(pl.visible) {
		row = len(pl.visible)
	}
	if row < 1 {
		row = 1
	}
	pl.Select(row, 0)
}

// SelectedProject returns the project under the cursor.
func (pl *ProjectList) SelectedProject() (api.Project, bool) {
	row, _ := pl.GetSelection()
	return pl.ProjectByIndex(row)
}

// ProjectByIndex returns the Nth visible project (1-based).
func (pl *ProjectList) ProjectByIndex(n int) (api.Project, bool) {
	if n < 1 || n > len(pl.visible) {
		return api.Project{}, false
	}
	return pl.visible[n-1], true
}

func listTitle(what string, shown, total int, filter string, loading bool) string {
	title := fmt.Sprintf(" %s (%d) ", what, total)
	if filter != "" {
		title = fmt.Sprintf(" %s (%d/%d) filter: %s ", what, shown, total, tview.Escape(filter))
	}
	if loading {
		title += "[::d]loading…[-:-:-] "
	}
	return title
}

// SelectID moves the cursor to the project with id. It reports false if the
// project is not visible.
func (pl *ProjectList) SelectID(id string) bool {
	for i, p := range pl.visible {
		if p.ID == id {
			pl.Select(i+1, 0)
			return true
		}
	}
	return false
}
