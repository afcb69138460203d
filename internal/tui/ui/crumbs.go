package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// maxCrumb is the longest label shown before truncation.
const maxCrumb = 24

// Crumbs is a breadcrumb bar showing the current navigation path.
type Crumbs struct {
	*tview.TextView
	theme *Theme
}

// NewCrumbs creates a new breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &Crumbs{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the breadcrumb trail from the page stack.
func (c *Crumbs) Update(stack []Page) {
	c.Clear()
	_, _ = fmt.Fprint(c, c.render(stack))
}

func (c *Crumbs) render(stack []Page) string {
	parts := make([]string, 0, len(stack))
	for i, pg := range stack {
		label := tview.Escape(Truncate(pg.Label, maxCrumb))
		if i == len(stack)-1 {
			parts = append(parts, fmt.Sprintf("[%s:%s:b] %s [-:-:-]",
				colorName(c.theme.CrumbActiveFg), colorName(c.theme.CrumbActiveBg), label))
		} else {
			parts = append(parts, fmt.Sprintf("[%s:%s:] %s [-:-:-]",
				colorName(c.theme.CrumbInactiveFg), colorName(c.theme.CrumbInactiveBg), label))
		}
	}
	return strings.Join(parts, " > ")
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}

// colorName returns a tview-compatible color name string.
func colorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
