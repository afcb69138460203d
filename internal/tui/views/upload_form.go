package views

import (
	"strings"

	"github.com/ccumaco/ai-frontend/internal/contextfiles"
	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/rivo/tview"
)

// UploadForm collects a local path and a context name for an upload. The
// path is checked before submission so unsupported files never leave the
// machine.
type UploadForm struct {
	*tview.Form
	theme    *ui.Theme
	onSubmit func(path, name string)
	onCancel func()
}

// NewUploadForm creates the upload panel.
func NewUploadForm(theme *ui.Theme) *UploadForm {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetTitleColor(theme.TitleColor)
	form.SetFieldBackgroundColor(theme.BgColor)
	form.SetFieldTextColor(theme.FgColor)
	form.SetLabelColor(theme.MenuKeyColor)
	form.SetButtonBackgroundColor(theme.BorderColor)
	form.SetTitle(" Upload context file (" + strings.Join(contextfiles.Extensions, " ") + ") ")

	uf := &UploadForm{Form: form, theme: theme}
	form.AddInputField("Path", "", 0, nil, nil)
	form.AddInputField("Name", "", 0, nil, nil)
	form.AddButton("Upload", uf.submit)
	form.AddButton("Cancel", func() {
		if uf.onCancel != nil {
			uf.onCancel()
		}
	})
	return uf
}

// Name implements Component.
func (uf *UploadForm) Name() string { return "Upload" }

// Hints implements Component.
func (uf *UploadForm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// SetOnSubmit sets the callback run with a path that passed the local checks.
func (uf *UploadForm) SetOnSubmit(fn func(path, name string)) { uf.onSubmit = fn }

// SetOnCancel sets the callback run when the form is dismissed.
func (uf *UploadForm) SetOnCancel(fn func()) { uf.onCancel = fn }

// Reset clears both fields and any status line.
func (uf *UploadForm) Reset() {
	uf.field("Path").SetText("")
	uf.field("Name").SetText("")
	uf.SetStatus("")
	uf.SetFocus(0)
}

// SetStatus shows msg in the form title; empty restores the default title.
func (uf *UploadForm) SetStatus(msg string) {
	title := " Upload context file (" + strings.Join(contextfiles.Extensions, " ") + ") "
	if msg != "" {
		title = " " + cell(msg) + " "
	}
	uf.SetTitle(title)
}

func (uf *UploadForm) field(label string) *tview.InputField {
	return uf.GetFormItemByLabel(label).(*tview.InputField)
}

func (uf *UploadForm) submit() {
	path := strings.TrimSpace(uf.field("Path").GetText())
	if err := contextfiles.CheckSelectable(path); err != nil {
		uf.SetStatus(err.Error())
		return
	}
	uf.SetStatus("")
	if uf.onSubmit != nil {
		uf.onSubmit(path, uf.field("Name").GetText())
	}
}
