package components

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/internal/ui/models"
	"github.com/truckline/dispatchdesk/internal/ui/theme"
	"github.com/truckline/dispatchdesk/internal/views"
)

const (
	dashboardTimeout = time.Minute
	cardsPerRow      = 3
)

// Dashboard shows one summary card per entity view.
type Dashboard struct {
	*tview.Flex
	app     *App
	cards   []*tview.TextView
	names   []string
	updated *tview.TextView
	// seq discards summaries from superseded refreshes.
	seq atomic.Uint64
}

// NewDashboard creates the dashboard with empty cards.
func NewDashboard(app *App) *Dashboard {
	d := &Dashboard{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		app:     app,
		updated: tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignRight),
	}

	var row *tview.Flex

	for i, v := range views.All() {
		if i%cardsPerRow == 0 {
			row = tview.NewFlex()
			d.AddItem(row, 0, 1, false)
		}

		card := tview.NewTextView().SetDynamicColors(true)
		card.SetBorder(true)
		card.SetTitle(fmt.Sprintf(" %d %s ", i+2, v.Title()))
		card.SetTitleColor(theme.Colors.Title)
		card.SetBorderColor(theme.Colors.Border)
		card.SetText(loadingCardText())

		row.AddItem(card, 0, 1, false)
		d.cards = append(d.cards, card)
		d.names = append(d.names, v.Name())
	}

	d.AddItem(d.updated, 1, 0, false)

	d.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter {
			// Enter opens the first list.
			d.app.showPage(0)
			return nil
		}

		return event
	})

	return d
}

// Refresh reloads every card in the background. Must be called on the UI
// goroutine.
func (d *Dashboard) Refresh() {
	seq := d.seq.Add(1)

	for _, card := range d.cards {
		card.SetText(loadingCardText())
	}

	d.updated.SetText("")

	d.app.goBackground(func() {
		ctx, cancel := context.WithTimeout(d.app.ctx, dashboardTimeout)
		defer cancel()

		summaries := views.LoadDashboard(ctx, d.app.client, views.All())
		if d.app.ctx.Err() != nil {
			return
		}

		for _, s := range summaries {
			if s.Err != nil {
				models.GetUILogger().Warn("Dashboard card %s failed: %v", s.Name, s.Err)
			}
		}

		d.app.QueueUpdateDraw(func() {
			if d.seq.Load() != seq {
				return
			}

			d.apply(summaries, time.Now())
		})
	})
}

func (d *Dashboard) apply(summaries []views.Summary, at time.Time) {
	for i, s := range summaries {
		if i < len(d.cards) {
			d.cards[i].SetText(cardText(s))
		}
	}

	d.updated.SetText(fmt.Sprintf("[%s]Updated %s ", theme.ColorToTag(theme.Colors.Secondary), at.Format("15:04:05")))
}

func loadingCardText() string {
	return fmt.Sprintf("\n [%s]Loading...[-]", theme.ColorToTag(theme.Colors.Secondary))
}

// cardText renders one summary: the total followed by each bucket count.
// A failed load shows the error with placeholder counts.
func cardText(s views.Summary) string {
	var sb strings.Builder

	if s.Err != nil {
		fmt.Fprintf(&sb, "\n [%s]%s[-]\n\n", theme.ColorToTag(theme.Colors.Error), tview.Escape(s.Err.Error()))
	} else {
		fmt.Fprintf(&sb, "\n [%s::b]Total: %s[-::-]\n\n", theme.ColorToTag(theme.Colors.Primary), humanize.Comma(int64(s.Total)))
	}

	for _, b := range s.Buckets {
		if b.Key == listview.AllBucket {
			continue
		}

		count := "-"
		if s.Err == nil {
			count = humanize.Comma(int64(b.Count))
		}

		fmt.Fprintf(&sb, " [%s]%-18s[-] %s\n", theme.ColorToTag(theme.Colors.Secondary), b.Label, count)
	}

	return sb.String()
}
