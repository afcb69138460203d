package views

import (
	"strconv"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/store"
	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ChatList is the chats table of the project page.
type ChatList struct {
	*tview.Table
	theme   *ui.Theme
	state   store.State[api.Chat]
	filter  string
	visible []api.Chat
}

// NewChatList creates a new chat list table.
func NewChatList(theme *ui.Theme) *ChatList {
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

	cl := &ChatList{Table: table, theme: theme}
	cl.render()
	return cl
}

// Update renders a store snapshot.
func (cl *ChatList) Update(s store.State[api.Chat]) {
	cl.state = s
	cl.render()
}

// SetFilter sets the active filter text and re-renders.
func (cl *ChatList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
}

func (cl *ChatList) render() {
	row, _ := cl.GetSelection()
	cl.Clear()

	for col, h := range []string{" #", " CHAT", " UPDATED"} {
		c := tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold)
		if col == 1 {
			c.SetExpansion(1)
		}
		cl.SetCell(0, col, c)
	}

	cl.visible = cl.visible[:0]
	for _, c := range cl.state.Data {
		if cl.filter == "" || containsFold(c.Name, cl.filter) {
			cl.visible = append(cl.visible, c)
		}
	}
	for i, c := range cl.visible {
		r := i + 1
		updated := c.UpdatedAt
		if updated.IsZero() {
			updated = c.CreatedAt
		}
		cl.SetCell(r, 0, tview.NewTableCell(" "+strconv.Itoa(r)).SetTextColor(cl.theme.NumericKeyColor))
		cl.SetCell(r, 1, tview.NewTableCell(" "+cell(c.Name)).SetExpansion(1).SetTextColor(cl.theme.FgColor))
		cl.SetCell(r, 2, tview.NewTableCell(" "+formatTimestamp(updated)).SetAlign(tview.AlignRight).SetTextColor(cl.theme.FgColor))
	}
	if len(cl.visible) == 0 && !cl.state.Loading {
		cl.SetCell(1, 1, tview.NewTableCell(" No chats. Press n to start one.").SetSelectable(false).SetTextColor(cl.theme.MutedColor))
	}

	cl.SetTitle(listTitle("Chats", len(cl.visible), len(cl.state.Data), cl.filter, cl.state.Loading))
	if row > len(cl.visible) {
		row = len(cl.visible)
	}
	if row < 1 {
		row = 1
	}
	cl.Select(row, 0)
}

// SelectedChat returns the chat under the cursor.
func (cl *ChatList) SelectedChat() (api.Chat, bool) {
	row, _ := cl.GetSelection()
	return cl.ChatByIndex(row)
}

// ChatByIndex returns the Nth visible chat (1-based).
func (cl *ChatList) ChatByIndex(n int) (api.Chat, bool) {
	if n < 1 || n > len(cl.visible) {
		return api.Chat{}, false
	}
	return cl.visible[n-1], true
}

// ClearFilter clears the active filter.
func (cl *ChatList) ClearFilter() {
	cl.SetFilter("")
}
