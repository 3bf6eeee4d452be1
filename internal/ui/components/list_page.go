package components

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/ui/theme"
	"github.com/truckline/dispatchdesk/internal/views"
)

// ListPage shows one entity view: status tabs, the table and the pager.
type ListPage struct {
	*tview.Flex
	app     *App
	session views.Session
	tabs    *tview.TextView
	table   *tview.Table
	pager   *tview.TextView
	frame   views.Frame
	// pendingG tracks the first half of the vim "gg" motion.
	pendingG bool
}

// NewListPage creates the page for session. Call render to fill it.
func NewListPage(app *App, session views.Session) *ListPage {
	tabs := tview.NewTextView().SetDynamicColors(true).SetWrap(false)

	table := tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetTitle(" " + session.Title() + " ")
	table.SetSelectedStyle(tcell.StyleDefault.Background(theme.Colors.Selection).Foreground(theme.Colors.Primary))

	pager := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	pager.SetTextColor(theme.Colors.Secondary)

	p := &ListPage{
		Flex: tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(tabs, 1, 0, false).
			AddItem(table, 0, 1, true).
			AddItem(pager, 1, 0, false),
		app:     app,
		session: session,
		tabs:    tabs,
		table:   table,
		pager:   pager,
	}

	table.SetInputCapture(p.handleVimKeys)

	return p
}

// Name returns the entity name of the page.
func (p *ListPage) Name() string { return p.session.Name() }

// Session returns the live view behind the page.
func (p *ListPage) Session() views.Session { return p.session }

// render redraws the page from the current frame. It must run on the UI
// goroutine.
func (p *ListPage) render() {
	f := p.session.Frame()
	p.frame = f

	row, _ := p.table.GetSelection()

	p.tabs.SetText(bucketTabsText(f))
	p.pager.SetText(pagerText(f))

	p.table.Clear()

	for col, title := range f.Headers {
		sortKey := ""
		if col < len(f.SortKeys) {
			sortKey = f.SortKeys[col]
		}

		cell := tview.NewTableCell(columnTitle(title, sortKey, f)).
			SetTextColor(theme.Colors.HeaderText).
			SetSelectable(false).
			SetExpansion(1)
		p.table.SetCell(0, col, cell)
	}

	if len(f.Rows) == 0 {
		color := theme.Colors.Secondary
		if f.Err != nil {
			color = theme.Colors.Error
		}

		p.table.SetCell(1, 0, tview.NewTableCell(emptyStateText(f)).
			SetTextColor(color).
			SetSelectable(false))

		return
	}

	for r, cells := range f.Rows {
		for c, text := range cells {
			cell := tview.NewTableCell(text).SetTextColor(theme.Colors.Primary).SetExpansion(1)
			if c < len(f.Colors[r]) && f.Colors[r][c] != "" {
				cell.SetTextColor(theme.StatusColor(f.Colors[r][c]))
			}

			p.table.SetCell(r+1, c, cell)
		}
	}

	row = min(max(row, 1), len(f.Rows))
	p.table.Select(row, 0)
}

// selected returns the id and description of the highlighted row.
func (p *ListPage) selected() (string, string, bool) {
	row, _ := p.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(p.frame.IDs) {
		return "", "", false
	}

	return p.frame.IDs[idx], p.frame.Descriptions[idx], true
}

func (p *ListPage) cycleBucket(delta int) {
	next := nextBucket(p.frame.Buckets, p.frame.Bucket, delta)
	if err := p.session.SelectBucket(next); err != nil {
		p.app.header.ShowError(err.Error())
		return
	}

	p.render()
}

func (p *ListPage) cycleSort() {
	key := nextSortKey(sortableKeys(p.frame), p.frame.SortKey, p.frame.Direction)
	if key == "" {
		return
	}

	if err := p.session.ToggleSort(key); err != nil {
		p.app.header.ShowError(err.Error())
		return
	}

	p.render()
}

func (p *ListPage) changePage(delta int) {
	page := p.frame.Page + delta
	if page < 0 || page >= p.frame.PageCount {
		return
	}

	p.session.ChangePage(page)
	p.render()
}

func (p *ListPage) cyclePageSize(sizes []int) {
	p.session.ChangeRowsPerPage(nextPageSize(sizes, p.frame.RowsPerPage))
	p.render()
}

func (p *ListPage) setQuery(query string) {
	p.session.SetQuery(query)
	p.render()
}

// handleVimKeys adds gg/G on top of tview's own hjkl table navigation.
func (p *ListPage) handleVimKeys(event *tcell.EventKey) *tcell.EventKey {
	if handleVimTopBottomRune(event, &p.pendingG, func() { jumpTableTop(p.table) }, func() { jumpTableBottom(p.table) }) {
		return nil
	}

	return event
}

// sortableKeys lists the sort keys in column order.
func sortableKeys(f views.Frame) []string {
	keys := make([]string, 0, len(f.SortKeys))
	for _, k := range f.SortKeys {
		if k != "" {
			keys = append(keys, k)
		}
	}

	return keys
}
