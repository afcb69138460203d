package views

import (
	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/contextfiles"
	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// FileList is the context files table of the project page. A check mark
// shows which files ground the next generation.
type FileList struct {
	*tview.Table
	theme *ui.Theme
	files []api.ContextFile
}

// NewFileList creates a new context file table.
func NewFileList(theme *ui.Theme) *FileList {
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
	table.SetTitle(" Context files ")

	return &FileList{Table: table, theme: theme}
}

// Update renders a manager snapshot.
func (fl *FileList) Update(s contextfiles.Snapshot) {
	row, _ := fl.GetSelection()
	fl.files = s.Files
	fl.Clear()

	selected := make(map[string]bool, len(s.Selected))
	for _, id := range s.Selected {
		selected[id] = true
	}

	for col, h := range []string{"  ", " NAME", " FILE", " SIZE"} {
		c := tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(fl.theme.TableHeaderFg).
			SetBackgroundColor(fl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold)
		if col == 1 || col == 2 {
			c.SetExpansion(1)
		}
		fl.SetCell(0, col, c)
	}
	for i, f := range s.Files {
		mark := "[ ]"
		if selected[f.ID] {
			mark = "[x]"
		}
		mc := tview.NewTableCell(" " + tview.Escape(mark)).SetTextColor(fl.theme.SelectedColor)
		name := f.ContextName
		if name == "" {
			name = f.OriginalName
		}
		fl.SetCell(i+1, 0, mc)
		fl.SetCell(i+1, 1, tview.NewTableCell(" "+cell(name)).SetExpansion(1).SetTextColor(fl.theme.FgColor))
		fl.SetCell(i+1, 2, tview.NewTableCell(" "+cell(f.OriginalName)).SetExpansion(1).SetTextColor(fl.theme.FgColor))
		fl.SetCell(i+1, 3, tview.NewTableCell(" "+contextfiles.FormatSize(f.Size)).SetAlign(tview.AlignRight).SetTextColor(fl.theme.FgColor))
	}
	if len(s.Files) == 0 {
		fl.SetCell(1, 1, tview.NewTableCell(" No context files uploaded yet.").SetSelectable(false).SetTextColor(fl.theme.MutedColor))
	}

	title := " Context files "
	switch {
	case s.Uploading:
		title += "[::d]uploading…[-:-:-] "
	case s.Deleting:
		title += "[::d]deleting…[-:-:-] "
	case len(s.Selected) > 0:
		title = " Context files (" + itoa(len(s.Selected)) + " selected) "
	}
	fl.SetTitle(title)

	if row > len(s.Files) {
		row = len(s.Files)
	}
	if row < 1 {
		row = 1
	}
	fl.Select(row, 0)
}

// SelectedFile returns the file under the cursor.
func (fl *FileList) SelectedFile() (api.ContextFile, bool) {
	row, _ := fl.GetSelection()
	if row < 1 || row > len(fl.files) {
		return api.ContextFile{}, false
	}
	return fl.files[row-1], true
}
