package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// menuRows is how many hints fit in one column of the header.
const menuRows = 5

// Menu displays keyboard shortcut hints in columns of menuRows entries.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders menu hints column by column.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	_, _ = fmt.Fprint(m, m.render(hints))
}

func (m *Menu) render(hints []MenuHint) string {
	keyColor := colorName(m.theme.MenuKeyColor)
	numColor := colorName(m.theme.NumericKeyColor)

	width := 0
	for _, h := range hints {
		if w := len(h.Key) + len(h.Description) + 3; w > width {
			width = w
		}
	}

	lines := make([]string, min(len(hints), menuRows))
	for i, h := range hints {
		kc := keyColor
		if h.Numeric {
			kc = numColor
		}
		pad := strings.Repeat(" ", width-len(h.Key)-len(h.Description)-3+2)
		lines[i%menuRows] += fmt.Sprintf("[%s::b]<%s>[-:-:-] %s%s", kc, h.Key, h.Description, pad)
	}
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}
