package components

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/ui/theme"
)

// Live feed states shown in the footer.
const (
	liveDisabled = iota
	liveConnecting
	liveConnected
)

// Footer encapsulates the application footer
type Footer struct {
	*tview.TextView
	baseText   string
	liveStatus int
}

var _ FooterComponent = (*Footer)(nil)

// NewFooter creates a new application footer with key bindings
func NewFooter() *Footer {
	footer := tview.NewTextView()
	footer.SetTextAlign(tview.AlignCenter)
	footer.SetDynamicColors(true)
	footer.SetBackgroundColor(theme.Colors.Footer)
	footer.SetTextColor(theme.Colors.FooterText)

	return &Footer{TextView: footer}
}

// UpdateKeybindings updates the footer text with custom key bindings
func (f *Footer) UpdateKeybindings(text string) {
	f.baseText = text
	f.updateDisplay()
}

// UpdateLiveStatus shows the state of the backend change feed.
func (f *Footer) UpdateLiveStatus(status int) {
	f.liveStatus = status
	f.updateDisplay()
}

// updateDisplay refreshes the footer text with current information
func (f *Footer) updateDisplay() {
	text := f.baseText

	switch f.liveStatus {
	case liveConnected:
		text = fmt.Sprintf("%s  [%s]● live[-]", text, theme.ColorToTag(theme.Colors.Success))
	case liveConnecting:
		text = fmt.Sprintf("%s  [%s]○ reconnecting[-]", text, theme.ColorToTag(theme.Colors.Warning))
	}

	f.SetText(text)
}
