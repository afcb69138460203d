package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// ProfileData holds what the header shows about the running profile.
type ProfileData struct {
	Profile  string
	APIURL   string
	Projects int
	Chats    int
	InFlight int
	Uptime   time.Duration
}

// ProfileInfo displays profile metadata in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the profile info.
func (pi *ProfileInfo) Update(data *ProfileData) {
	pi.Clear()
	if data == nil {
		return
	}

	fgColor := colorName(pi.theme.FgColor)
	counterColor := colorName(pi.theme.CounterColor)

	activity := "idle"
	if data.InFlight > 0 {
		activity = fmt.Sprintf("%d in flight", data.InFlight)
	}

	text := fmt.Sprintf(
		"[%s::b]Profile:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Backend:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Projects:[-:-:-] [%s]%d[-]\n"+
			"[%s::b]Chats:[-:-:-]    [%s]%d[-]\n"+
			"[%s::b]Requests:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Uptime:[-:-:-]   [%s]%s[-]",
		fgColor, counterColor, tview.Escape(data.Profile),
		fgColor, counterColor, tview.Escape(Truncate(data.APIURL, 40)),
		fgColor, counterColor, data.Projects,
		fgColor, counterColor, data.Chats,
		fgColor, counterColor, activity,
		fgColor, counterColor, formatDuration(data.Uptime),
	)

	_, _ = fmt.Fprint(pi, text)
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
