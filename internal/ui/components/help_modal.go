package components

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/ui/theme"
)

// HelpModal represents a modal dialog showing keybindings and usage information
type HelpModal struct {
	*tview.Pages
	app      *App
	textView *tview.TextView
}

// NewHelpModal creates a new help modal listing kb.
func NewHelpModal(kb keyBindings) *HelpModal {
	textView := tview.NewTextView()
	textView.SetDynamicColors(true)
	textView.SetScrollable(true)
	textView.SetWrap(false)
	textView.SetBorder(true)
	textView.SetTitle(" DispatchDesk - Help & Keybindings ")
	textView.SetTitleColor(theme.Colors.Title)
	textView.SetBorderColor(theme.Colors.Border)
	textView.SetText(helpText(kb))

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(textView, 0, 10, true).
			AddItem(nil, 0, 1, false),
			0, 8, true).
		AddItem(nil, 0, 1, false)

	pages := tview.NewPages()
	pages.AddPage("help-content", flex, true, true)

	return &HelpModal{
		Pages:    pages,
		textView: textView,
	}
}

// helpText lists every shortcut, using the configured keys.
func helpText(kb keyBindings) string {
	line := func(key, action string) string {
		return fmt.Sprintf("  [primary]%-26s[-] %s\n", tview.Escape(key), action)
	}

	var sb strings.Builder

	sb.WriteString("[title]Navigation:[-]\n")
	sb.WriteString(line("Arrow Keys / hjkl", "Move through the table"))
	sb.WriteString(line("gg / G", "Jump to first / last row"))
	sb.WriteString(line("Tab / Shift+Tab", "Next / previous page"))
	sb.WriteString(line(kb.nextView.Label()+" / "+kb.prevView.Label(), "Next / previous page"))
	sb.WriteString(line("F1 / "+kb.dashboard.Label(), "Dashboard"))
	sb.WriteString(line("F2-F7", "Jump to a list"))

	sb.WriteString("\n[title]Lists:[-]\n")
	sb.WriteString(line(kb.search.Label(), "Search the current list"))
	sb.WriteString(line(kb.nextBucket.Label()+" / "+kb.prevBucket.Label(), "Next / previous status tab"))
	sb.WriteString(line(kb.sort.Label(), "Cycle sort column and direction"))
	sb.WriteString(line(kb.nextPage.Label()+" / "+kb.prevPage.Label(), "Next / previous page of rows"))
	sb.WriteString(line(kb.pageSize.Label(), "Change rows per page"))
	sb.WriteString(line(kb.refresh.Label(), "Refetch, clearing search and status"))
	sb.WriteString(line(kb.delete.Label(), "Delete the selected row"))

	sb.WriteString("\n[title]Search:[-]\n")
	sb.WriteString(line("Type to filter", "Matches any column, accents ignored"))
	sb.WriteString(line("Enter", "Keep the filter and return to the list"))
	sb.WriteString(line("Escape", "Clear the filter"))

	sb.WriteString("\n[title]Application:[-]\n")
	sb.WriteString(line(kb.help.Label(), "Toggle this help"))
	sb.WriteString(line(kb.quit.Label(), "Quit"))

	sb.WriteString("\n[secondary]Press [primary]?[-][secondary], [primary]Escape[-][secondary], or [primary]q[-][secondary] to exit this help[-]")

	return replaceSemantic(sb.String())
}

// replaceSemantic resolves semantic color tags against the active theme.
func replaceSemantic(s string) string {
	return theme.ReplaceSemanticTags(s)
}

// SetApp sets the parent app reference
func (hm *HelpModal) SetApp(app *App) {
	hm.app = app
}

// Show displays the help modal
func (hm *HelpModal) Show() {
	if hm.app == nil {
		return
	}

	hm.textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape ||
			(event.Key() == tcell.KeyRune && (event.Rune() == '?' || event.Rune() == 'q')):
			hm.Hide()
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 'j':
			return tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
		case event.Key() == tcell.KeyRune && event.Rune() == 'k':
			return tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
		}
		return event
	})

	hm.app.lastFocus = hm.app.GetFocus()
	hm.app.pages.AddPage(pageHelp, hm.Pages, true, true)
	hm.app.SetFocus(hm.textView)
}

// Hide closes the help modal
func (hm *HelpModal) Hide() {
	if hm.app == nil {
		return
	}

	hm.app.removePageIfPresent(pageHelp)
	hm.app.restoreFocus()
}
