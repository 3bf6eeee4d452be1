package components

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/ui/theme"
)

const (
	appTitle       = "DispatchDesk"
	messageTimeout = 3 * time.Second
)

// Header encapsulates the application header
type Header struct {
	*tview.TextView
	mu          sync.Mutex
	isLoading   bool
	loadingText string
	stopLoading chan struct{}
	app         *tview.Application
	// generation invalidates pending message resets when a newer message
	// is shown.
	generation int
}

var _ HeaderComponent = (*Header)(nil)

// NewHeader creates a new application header
func NewHeader() *Header {
	header := tview.NewTextView()
	header.SetTextAlign(tview.AlignCenter)
	header.SetText(appTitle)
	header.SetDynamicColors(true)
	header.SetBackgroundColor(theme.Colors.Header)
	header.SetTextColor(theme.Colors.HeaderText)

	return &Header{TextView: header}
}

// SetApp sets the application reference for UI updates
func (h *Header) SetApp(app *tview.Application) {
	h.app = app
}

// ShowLoading displays an animated loading indicator
func (h *Header) ShowLoading(message string) {
	h.StopLoading()

	h.mu.Lock()
	h.isLoading = true
	h.loadingText = message
	h.generation++
	stop := make(chan struct{})
	h.stopLoading = stop
	h.mu.Unlock()

	h.SetText(fmt.Sprintf("[%s]%s %s[-]", theme.ColorToTag(theme.Colors.Warning), spinnerFrames[0], message))

	if h.app != nil {
		go h.animateLoading(stop)
	}
}

// StopLoading stops the loading animation
func (h *Header) StopLoading() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.isLoading {
		h.isLoading = false
		close(h.stopLoading)
	}
}

// IsLoading reports whether the header is currently showing a loading state.
func (h *Header) IsLoading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.isLoading
}

// ShowSuccess displays a success message temporarily
func (h *Header) ShowSuccess(message string) {
	h.showTemporary(fmt.Sprintf("[%s]✓ %s[-]", theme.ColorToTag(theme.Colors.Success), message))
}

// ShowWarning displays a warning message temporarily
func (h *Header) ShowWarning(message string) {
	h.showTemporary(fmt.Sprintf("[%s]⚠ %s[-]", theme.ColorToTag(theme.Colors.Warning), message))
}

// ShowError displays an error message temporarily
func (h *Header) ShowError(message string) {
	h.showTemporary(fmt.Sprintf("[%s]✗ %s[-]", theme.ColorToTag(theme.Colors.Error), message))
}

func (h *Header) showTemporary(text string) {
	h.StopLoading()

	h.mu.Lock()
	h.generation++
	gen := h.generation
	h.mu.Unlock()

	h.SetText(text)

	if h.app == nil {
		return
	}

	time.AfterFunc(messageTimeout, func() {
		h.app.QueueUpdateDraw(func() {
			h.mu.Lock()
			current := h.generation == gen
			h.mu.Unlock()

			if current {
				h.SetText(appTitle)
			}
		})
	})
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// animateLoading displays an animated loading indicator
func (h *Header) animateLoading(stop <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	index := 0

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			index = (index + 1) % len(spinnerFrames)
			frame := spinnerFrames[index]

			h.app.QueueUpdateDraw(func() {
				h.mu.Lock()
				loading, text := h.isLoading, h.loadingText
				h.mu.Unlock()

				if loading {
					h.SetText(fmt.Sprintf("[%s]%s %s[-]", theme.ColorToTag(theme.Colors.Warning), frame, text))
				}
			})
		}
	}
}
