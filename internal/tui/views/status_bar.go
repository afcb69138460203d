package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ccumaco/ai-frontend/internal/status"
	"github.com/rivo/tview"
)

// StatusBar displays the profile, the backend and the operations in flight.
type StatusBar struct {
	*tview.TextView
	profile  string
	apiURL   string
	inFlight map[string]int
	now      func() time.Time
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	sb := &StatusBar{TextView: tv, inFlight: make(map[string]int), now: time.Now}
	sb.render()
	return sb
}

// SetBackend updates the profile and API URL display.
func (sb *StatusBar) SetBackend(profile, apiURL string) {
	sb.profile = profile
	sb.apiURL = apiURL
	sb.render()
}

// Track counts an operation phase change.
func (sb *StatusBar) Track(pc status.PhaseChange) {
	switch pc.To {
	case status.Pending:
		sb.inFlight[pc.Op]++
	case status.Fulfilled, status.Rejected:
		if sb.inFlight[pc.Op] > 0 {
			sb.inFlight[pc.Op]--
		}
		if sb.inFlight[pc.Op] == 0 {
			delete(sb.inFlight, pc.Op)
		}
	}
	sb.render()
}

// InFlight returns the number of pending operations.
func (sb *StatusBar) InFlight() int {
	n := 0
	for _, c := range sb.inFlight {
		n += c
	}
	return n
}

func (sb *StatusBar) render() {
	sb.Clear()

	ops := make([]string, 0, len(sb.inFlight))
	for op := range sb.inFlight {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	activity := "[::d]idle[-:-:-]"
	if len(ops) > 0 {
		activity = "[green]~[-] " + tview.Escape(strings.Join(ops, ", "))
	}

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s | %s",
		tview.Escape(sb.profile), tview.Escape(sb.apiURL), activity, sb.now().Format("15:04"))
	_, _ = fmt.Fprint(sb, line)
}
