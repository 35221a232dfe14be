package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel is the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// flashTTL is how long each level stays on screen.
var flashTTL = [...]time.Duration{
	FlashInfo: 4 * time.Second,
	FlashWarn: 8 * time.Second,
	FlashErr:  12 * time.Second,
}

func (l FlashLevel) String() string {
	switch l {
	case FlashWarn:
		return "warn"
	case FlashErr:
		return "error"
	default:
		return "info"
	}
}

// FlashMessage is one notification.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// FlashModel keeps the latest notification and fans new ones out to the bar.
type FlashModel struct {
	mu      sync.Mutex
	current FlashMessage
	now     func() time.Time
	updates chan FlashMessage
}

// NewFlashModel creates an empty flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{now: time.Now, updates: make(chan FlashMessage, 8)}
}

func (f *FlashModel) Info(msg string) { f.Notify(FlashInfo, msg) }
func (f *FlashModel) Warn(msg string) { f.Notify(FlashWarn, msg) }
func (f *FlashModel) Err(err error)   { f.Notify(FlashErr, err.Error()) }

// Notify replaces the current message. Slow readers miss updates but still
// see the latest message through Current.
func (f *FlashModel) Notify(level FlashLevel, text string) {
	f.mu.Lock()
	f.current = FlashMessage{Text: text, Level: level, Expires: f.now().Add(flashTTL[level])}
	msg := f.current
	f.mu.Unlock()

	select {
	case f.updates <- msg:
	default:
	}
}

// Current returns the message on screen, if it has not expired.
func (f *FlashModel) Current() (FlashMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current.Text == "" || !f.now().Before(f.current.Expires) {
		return FlashMessage{}, false
	}
	return f.current, true
}

// Updates delivers every message as it is set.
func (f *FlashModel) Updates() <-chan FlashMessage {
	return f.updates
}

// FlashBar draws the current flash message.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates an empty flash bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &FlashBar{TextView: tv, theme: theme}
}

// Show draws msg, or clears the bar when ok is false.
func (fb *FlashBar) Show(msg FlashMessage, ok bool) {
	fb.Clear()
	if !ok {
		return
	}
	color, icon := fb.theme.FlashInfoColor, "i"
	switch msg.Level {
	case FlashWarn:
		color, icon = fb.theme.FlashWarnColor, "!"
	case FlashErr:
		color, icon = fb.theme.FlashErrColor, "x"
	}
	_, _ = fmt.Fprintf(fb, " [%s::b]%s[-:-:-] [%s]%s[-]", Hex(color), icon, Hex(color), tview.Escape(msg.Text))
}
