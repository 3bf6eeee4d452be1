package components

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/ui/theme"
)

// baseLayoutItems counts header, tab bar, pages and footer.
const baseLayoutItems = 4

// searchActive reports whether the search input is shown.
func (a *App) searchActive() bool {
	return a.mainLayout.GetItemCount() > baseLayoutItems
}

// activateSearch shows the search input for the current list page. Every
// keystroke narrows the page; Enter keeps the query and Escape clears it.
func (a *App) activateSearch() {
	page := a.currentPage()
	if page == nil {
		return
	}

	if a.searchInput == nil {
		a.searchInput = tview.NewInputField().
			SetLabel("Search: ").
			SetFieldWidth(0).
			SetPlaceholder("Filter " + page.session.Title() + "... press Enter/Esc to return to list")
		a.searchInput.SetLabelColor(theme.Colors.Title)
	}

	a.searchInput.SetPlaceholder("Filter " + page.session.Title() + "... press Enter/Esc to return to list")

	// Swap the handler before seeding the text so the previous page's
	// handler does not fire.
	a.searchInput.SetChangedFunc(nil)
	a.searchInput.SetText(page.frame.Query)
	a.searchInput.SetChangedFunc(func(text string) {
		page.setQuery(text)
	})

	if !a.searchActive() {
		a.mainLayout.RemoveItem(a.footer)
		a.mainLayout.AddItem(a.searchInput, 1, 0, true)
		a.mainLayout.AddItem(a.footer, 1, 0, false)
	}

	a.SetFocus(a.searchInput)

	removeSearchInput := func() {
		if a.searchActive() {
			a.mainLayout.RemoveItem(a.footer)
			a.mainLayout.RemoveItem(a.searchInput)
			a.mainLayout.AddItem(a.footer, 1, 0, false)
		}

		a.SetFocus(page.table)
	}

	a.searchInput.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			a.searchInput.SetText("")
			removeSearchInput()

			return nil
		case tcell.KeyEnter:
			removeSearchInput()

			return nil
		case tcell.KeyTab, tcell.KeyBacktab:
			return nil
		}

		return event
	})
}
