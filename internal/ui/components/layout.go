package components

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/ui/theme"
)

const pageDashboard = "dashboard"

// createMainLayout builds the main application layout
func (a *App) createMainLayout() *tview.Flex {
	a.pages.AddPage(pageDashboard, a.dashboard, true, true)

	for _, page := range a.lists {
		a.pages.AddPage(page.Name(), page, true, false)
	}

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(a.tabBar, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.footer, 1, 0, false)
}

func (a *App) showDashboard() {
	a.current = -1
	a.pages.SwitchToPage(pageDashboard)
	a.SetFocus(a.dashboard)
	a.updateTabBar()
}

// showPage switches to the list page at index i.
func (a *App) showPage(i int) {
	if i < 0 || i >= len(a.lists) {
		return
	}

	a.current = i
	page := a.lists[i]
	a.pages.SwitchToPage(page.Name())
	page.render()
	a.SetFocus(page.table)
	a.updateTabBar()
}

// showPageByName switches to the list page of the named entity.
func (a *App) showPageByName(name string) {
	for i, page := range a.lists {
		if page.Name() == name {
			a.showPage(i)
			return
		}
	}
}

// cyclePage moves delta tabs away from the current one. The dashboard sits
// before the first list page.
func (a *App) cyclePage(delta int) {
	n := len(a.lists) + 1
	pos := a.current + 1
	next := ((pos+delta)%n + n) % n

	if next == 0 {
		a.showDashboard()
		return
	}

	a.showPage(next - 1)
}

func (a *App) updateTabBar() {
	titles := make([]string, 0, len(a.lists)+1)
	titles = append(titles, "Dashboard")

	for _, page := range a.lists {
		titles = append(titles, page.session.Title())
	}

	a.tabBar.SetText(tabBarText(titles, a.current+1))
}

// tabBarText renders the page tabs with the active one highlighted.
func tabBarText(titles []string, active int) string {
	parts := make([]string, 0, len(titles))
	for i, title := range titles {
		if i == active {
			parts = append(parts, fmt.Sprintf("[%s::b] %d %s [-::-]", theme.ColorToTag(theme.Colors.Title), i+1, title))
			continue
		}

		parts = append(parts, fmt.Sprintf("[%s] %d %s [-]", theme.ColorToTag(theme.Colors.Secondary), i+1, title))
	}

	return strings.Join(parts, "│")
}
