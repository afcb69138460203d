package views

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/rivo/tview"
)

// Markdown renders assistant replies for a tview text view. Renderers are
// cached per wrap width.
type Markdown struct {
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown creates a markdown renderer cache.
func NewMarkdown() *Markdown {
	return &Markdown{renderers: make(map[int]*glamour.TermRenderer)}
}

func (md *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	md.mu.Lock()
	defer md.mu.Unlock()
	if r, ok := md.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	md.renderers[width] = r
	return r, nil
}

// Render converts markdown to tview color tags. On failure the escaped
// source is returned so that the text is never lost.
func (md *Markdown) Render(src string, width int) string {
	if width < 20 {
		width = 20
	}
	src = sanitizeForTerminal(src)
	plain := tview.Escape(src)
	r, err := md.renderer(width)
	if err != nil {
		return plain
	}
	out, err := r.Render(src)
	if err != nil {
		return plain
	}
	return strings.Trim(tview.TranslateANSI(out), "\n")
}
