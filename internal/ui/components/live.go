package components

import (
	"slices"
	"time"

	"github.com/truckline/dispatchdesk/internal/ui/models"
	"github.com/truckline/dispatchdesk/pkg/api"
)

const (
	liveMinBackoff = time.Second
	liveMaxBackoff = 30 * time.Second
	// liveDebounce coalesces bursts of change events into one reload per
	// collection.
	liveDebounce = 250 * time.Millisecond
)

// startLiveUpdates follows the backend change feed until the app stops.
func (a *App) startLiveUpdates() {
	a.goBackground(a.runLiveUpdates)
}

func (a *App) runLiveUpdates() {
	uiLogger := models.GetUILogger()
	backoff := liveMinBackoff

	for {
		events, err := a.client.SubscribeChanges(a.ctx)
		if err != nil {
			uiLogger.Debug("Change feed unavailable: %v", err)
		} else {
			backoff = liveMinBackoff
			a.setLiveStatus(liveConnected)
			a.consumeChanges(events)
		}

		if a.ctx.Err() != nil {
			return
		}

		a.setLiveStatus(liveConnecting)

		select {
		case <-a.ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, liveMaxBackoff)
	}
}

// consumeChanges reloads the affected pages until events is closed.
func (a *App) consumeChanges(events <-chan api.ChangeEvent) {
	known := make([]string, 0, len(a.lists))
	for _, page := range a.lists {
		known = append(known, page.Name())
	}

	batch := newChangeBatch(known)

	var flush <-chan time.Time

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				a.reloadCollections(batch.drain())
				return
			}

			if batch.add(ev) && flush == nil {
				flush = time.After(liveDebounce)
			}
		case <-flush:
			flush = nil
			a.reloadCollections(batch.drain())
		}
	}
}

// reloadCollections reloads the named pages, keeping their filters, and
// refreshes the dashboard if it is on screen.
func (a *App) reloadCollections(names []string) {
	if len(names) == 0 || a.ctx.Err() != nil {
		return
	}

	uiLogger := models.GetUILogger()

	for _, name := range names {
		page := a.pageByName(name)
		if page == nil {
			continue
		}

		if err := page.Session().Reload(); err != nil {
			uiLogger.Warn("Live reload of %s failed: %v", name, err)
		}
	}

	a.QueueUpdateDraw(func() {
		if a.current < 0 {
			a.dashboard.Refresh()
		}
	})
}

func (a *App) setLiveStatus(status int) {
	a.QueueUpdateDraw(func() {
		a.footer.UpdateLiveStatus(status)
	})
}

// changeBatch collects the collections touched by change events.
type changeBatch struct {
	known   []string
	pending map[string]struct{}
}

func newChangeBatch(known []string) *changeBatch {
	return &changeBatch{known: known, pending: make(map[string]struct{})}
}

// add records ev and reports whether it names a known collection.
func (b *changeBatch) add(ev api.ChangeEvent) bool {
	if !slices.Contains(b.known, ev.Collection) {
		return false
	}

	b.pending[ev.Collection] = struct{}{}

	return true
}

// drain returns the pending collections in navigation order and resets
// the batch.
func (b *changeBatch) drain() []string {
	out := make([]string, 0, len(b.pending))
	for _, name := range b.known {
		if _, ok := b.pending[name]; ok {
			out = append(out, name)
		}
	}

	clear(b.pending)

	return out
}
