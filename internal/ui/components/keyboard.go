package components

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/internal/keys"
	"github.com/truckline/dispatchdesk/internal/ui/models"
)

// keyBindings holds the parsed global shortcuts.
type keyBindings struct {
	nextView   keys.Binding
	prevView   keys.Binding
	dashboard  keys.Binding
	search     keys.Binding
	nextBucket keys.Binding
	prevBucket keys.Binding
	sort       keys.Binding
	nextPage   keys.Binding
	prevPage   keys.Binding
	pageSize   keys.Binding
	refresh    keys.Binding
	delete     keys.Binding
	help       keys.Binding
	quit       keys.Binding
}

// newKeyBindings parses kb. A spec that does not parse falls back to the
// default for that action.
func newKeyBindings(kb config.KeyBindings) keyBindings {
	def := config.DefaultKeyBindings()

	return keyBindings{
		nextView:   bindingOr(kb.NextView, def.NextView),
		prevView:   bindingOr(kb.PrevView, def.PrevView),
		dashboard:  bindingOr(kb.Dashboard, def.Dashboard),
		search:     bindingOr(kb.Search, def.Search),
		nextBucket: bindingOr(kb.NextBucket, def.NextBucket),
		prevBucket: bindingOr(kb.PrevBucket, def.PrevBucket),
		sort:       bindingOr(kb.Sort, def.Sort),
		nextPage:   bindingOr(kb.NextPage, def.NextPage),
		prevPage:   bindingOr(kb.PrevPage, def.PrevPage),
		pageSize:   bindingOr(kb.PageSize, def.PageSize),
		refresh:    bindingOr(kb.Refresh, def.Refresh),
		delete:     bindingOr(kb.Delete, def.Delete),
		help:       bindingOr(kb.Help, def.Help),
		quit:       bindingOr(kb.Quit, def.Quit),
	}
}

func bindingOr(spec, fallback string) keys.Binding {
	if b, err := keys.NewBinding(spec); err == nil {
		return b
	}

	models.GetUILogger().Warn("Ignoring invalid key binding %q, using %q", spec, fallback)

	return keys.MustBinding(fallback)
}

// footerText lists the most used shortcuts.
func footerText(kb keyBindings) string {
	hints := []struct {
		b     keys.Binding
		label string
	}{
		{kb.nextView, "Next"},
		{kb.search, "Search"},
		{kb.nextBucket, "Status"},
		{kb.sort, "Sort"},
		{kb.nextPage, "Page"},
		{kb.delete, "Delete"},
		{kb.help, "Help"},
		{kb.quit, "Quit"},
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, fmt.Sprintf("[warning]%s:[primary]%s", tview.Escape(h.b.Label()), h.label))
	}

	return replaceSemantic(strings.Join(parts, "  "))
}

// setupKeyboardHandlers configures global keyboard shortcuts
func (a *App) setupKeyboardHandlers() {
	a.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Let the search input and modals handle their own keys.
		if a.searchActive() || a.modalActive() {
			return event
		}

		return a.handleGlobalKey(event)
	})
}

// handleGlobalKey dispatches one key event. It returns nil when the event
// was consumed.
func (a *App) handleGlobalKey(event *tcell.EventKey) *tcell.EventKey {
	kb := a.keys

	switch event.Key() {
	case tcell.KeyTab:
		a.cyclePage(1)
		return nil
	case tcell.KeyBacktab:
		a.cyclePage(-1)
		return nil
	case tcell.KeyF1:
		a.showDashboard()
		return nil
	case tcell.KeyF2, tcell.KeyF3, tcell.KeyF4, tcell.KeyF5, tcell.KeyF6, tcell.KeyF7:
		a.showPage(int(event.Key() - tcell.KeyF2))
		return nil
	}

	switch {
	case kb.quit.Matches(event):
		a.requestQuit()
	case kb.help.Matches(event):
		a.helpModal.Show()
	case kb.nextView.Matches(event):
		a.cyclePage(1)
	case kb.prevView.Matches(event):
		a.cyclePage(-1)
	case kb.dashboard.Matches(event):
		a.showDashboard()
	case kb.refresh.Matches(event):
		a.manualRefresh()
	default:
		return a.handlePageKey(event)
	}

	return nil
}

// handlePageKey handles the shortcuts that act on the current list page.
func (a *App) handlePageKey(event *tcell.EventKey) *tcell.EventKey {
	page := a.currentPage()
	if page == nil {
		return event
	}

	kb := a.keys

	switch {
	case kb.search.Matches(event):
		a.activateSearch()
	case kb.nextBucket.Matches(event):
		page.cycleBucket(1)
	case kb.prevBucket.Matches(event):
		page.cycleBucket(-1)
	case kb.sort.Matches(event):
		page.cycleSort()
	case kb.nextPage.Matches(event):
		page.changePage(1)
	case kb.prevPage.Matches(event):
		page.changePage(-1)
	case kb.pageSize.Matches(event):
		page.cyclePageSize(a.config.PageSizes)
	case kb.delete.Matches(event):
		a.confirmDelete(page)
	default:
		return event
	}

	return nil
}

// manualRefresh refetches the current page, or reloads the dashboard.
func (a *App) manualRefresh() {
	page := a.currentPage()
	if page == nil {
		a.dashboard.Refresh()
		return
	}

	if err := page.Session().Refetch(); err != nil {
		a.showMessage("Refresh failed", err.Error(), true)
		return
	}

	page.render()
}

// requestQuit stops the app, asking first when deletes are still running.
func (a *App) requestQuit() {
	if !a.state.HasPendingOperations() {
		a.Stop()
		return
	}

	a.showConfirmationDialog("Deletes are still running. Quit anyway?", a.Stop)
}

func (a *App) modalActive() bool {
	for _, name := range []string{pageHelp, pageConfirm, pageMessage} {
		if a.pages.HasPage(name) {
			return true
		}
	}

	return false
}
