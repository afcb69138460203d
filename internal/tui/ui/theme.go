package ui

import "github.com/gdamore/tcell/v2"

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor           tcell.Color
	FgColor           tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
	UserColor         tcell.Color
	AssistantColor    tcell.Color
	SelectedColor     tcell.Color
	MutedColor        tcell.Color
}

// DefaultTheme returns the dark theme used by aifront.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorCadetBlue,
		BorderColor:       tcell.ColorDodgerBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorAqua,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorOrange,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorAqua,
		MenuKeyColor:      tcell.ColorDodgerBlue,
		NumericKeyColor:   tcell.ColorFuchsia,
		TitleColor:        tcell.ColorFuchsia,
		CounterColor:      tcell.ColorPapayaWhip,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorDodgerBlue,
		UserColor:         tcell.ColorLightSkyBlue,
		AssistantColor:    tcell.ColorMediumSpringGreen,
		SelectedColor:     tcell.ColorGold,
		MutedColor:        tcell.ColorGray,
	}
}

// Color returns c in tview's inline color tag syntax.
func Color(c tcell.Color) string {
	return colorName(c)
}
