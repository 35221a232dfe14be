package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme is the palette shared by every view.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TitleColor       tcell.Color

	TableHeaderFg tcell.Color
	TableHeaderBg tcell.Color
	TableCursorFg tcell.Color
	TableCursorBg tcell.Color

	// Conversation list and thread.
	SectionColor tcell.Color
	PinnedColor  tcell.Color
	UnreadColor  tcell.Color
	SelfColor    tcell.Color
	TimeColor    tcell.Color

	CrumbActiveFg   tcell.Color
	CrumbActiveBg   tcell.Color
	CrumbInactiveFg tcell.Color
	CrumbInactiveBg tcell.Color

	MenuKeyColor    tcell.Color
	NumericKeyColor tcell.Color
	CounterColor    tcell.Color

	FlashInfoColor tcell.Color
	FlashWarnColor tcell.Color
	FlashErrColor  tcell.Color

	PromptBorderColor tcell.Color
}

// DefaultTheme returns the dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorSilver,
		BorderColor:      tcell.ColorTeal,
		BorderFocusColor: tcell.ColorAquaMarine,
		TitleColor:       tcell.ColorMediumSpringGreen,

		TableHeaderFg: tcell.ColorWhite,
		TableHeaderBg: tcell.ColorBlack,
		TableCursorFg: tcell.ColorBlack,
		TableCursorBg: tcell.ColorMediumAquamarine,

		SectionColor: tcell.ColorGray,
		PinnedColor:  tcell.ColorGold,
		UnreadColor:  tcell.ColorLimeGreen,
		SelfColor:    tcell.ColorLightSkyBlue,
		TimeColor:    tcell.ColorDarkGray,

		CrumbActiveFg:   tcell.ColorBlack,
		CrumbActiveBg:   tcell.ColorMediumSpringGreen,
		CrumbInactiveFg: tcell.ColorBlack,
		CrumbInactiveBg: tcell.ColorTeal,

		MenuKeyColor:    tcell.ColorMediumAquamarine,
		NumericKeyColor: tcell.ColorGold,
		CounterColor:    tcell.ColorWhite,

		FlashInfoColor: tcell.ColorLightGreen,
		FlashWarnColor: tcell.ColorGold,
		FlashErrColor:  tcell.ColorIndianRed,

		PromptBorderColor: tcell.ColorMediumSpringGreen,
	}
}

// Hex renders a color as a tview style tag color, e.g. "#00ff7f".
func Hex(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
