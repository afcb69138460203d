package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel represents the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// FlashMessage is a flash notification with a level and expiry.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// FlashModel holds the current transient notification. Errors stay until
// replaced or cleared; info and warnings expire.
type FlashModel struct {
	mu      sync.RWMutex
	current FlashMessage
	now     func() time.Time
}

// NewFlashModel creates a new flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{now: time.Now}
}

// Info sets an info-level flash message.
func (f *FlashModel) Info(msg string) {
	f.set(msg, FlashInfo, 5*time.Second)
}

// Warn sets a warn-level flash message.
func (f *FlashModel) Warn(msg string) {
	f.set(msg, FlashWarn, 8*time.Second)
}

// Err sets an error-level flash message that stays until cleared.
func (f *FlashModel) Err(msg string) {
	f.set(msg, FlashErr, 0)
}

// Clear removes the current message.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.current = FlashMessage{}
	f.mu.Unlock()
}

func (f *FlashModel) set(msg string, level FlashLevel, d time.Duration) {
	fm := FlashMessage{Text: msg, Level: level}
	if d > 0 {
		fm.Expires = f.now().Add(d)
	}
	f.mu.Lock()
	f.current = fm
	f.mu.Unlock()
}

// Get returns the current flash message, or nil if none or expired.
func (f *FlashModel) Get() *FlashMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.Text == "" {
		return nil
	}
	if !f.current.Expires.IsZero() && f.now().After(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// FlashBar is the UI component that displays flash notifications.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash notification bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &FlashBar{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders a flash message on the bar.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}

	var color string
	switch msg.Level {
	case FlashInfo:
		color = colorName(fb.theme.FlashInfoColor)
	case FlashWarn:
		color = colorName(fb.theme.FlashWarnColor)
	case FlashErr:
		color = colorName(fb.theme.FlashErrColor)
	}
	text := tview.Escape(msg.Text)
	if msg.Level == FlashErr {
		text += " [::d](x to dismiss)[-:-:-]"
	}
	_, _ = fmt.Fprintf(fb, " [%s]%s[-]", color, text)
}
