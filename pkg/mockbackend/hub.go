package mockbackend

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/truckline/dispatchdesk/pkg/api"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

const writeWait = 5 * time.Second

// Hub fans change events out to websocket subscribers.
type Hub struct {
	mu       sync.Mutex
	subs     map[chan api.ChangeEvent]struct{}
	closed   bool
	done     chan struct{}
	wg       sync.WaitGroup
	upgrader websocket.Upgrader
	logger   interfaces.Logger
}

// NewHub creates an empty hub.
func NewHub(logger interfaces.Logger) *Hub {
	return &Hub{
		subs: make(map[chan api.ChangeEvent]struct{}),
		done: make(chan struct{}),
		upgrader: websocket.Upgrader{
			// The console is not a browser; there is no origin to check.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Publish delivers ev to every subscriber. Slow subscribers miss events
// rather than block the publisher.
func (h *Hub) Publish(ev api.ChangeEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("Dropping %s event for slow subscriber", ev.Collection)
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs)
}

func (h *Hub) subscribe() (chan api.ChangeEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false
	}

	ch := make(chan api.ChangeEvent, 16)
	h.subs[ch] = struct{}{}
	h.wg.Add(1)

	return ch, true
}

func (h *Hub) unsubscribe(ch chan api.ChangeEvent) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()

	h.wg.Done()
}

// ServeHTTP upgrades the request and streams events until either side
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade change feed connection: %v", err)
		return
	}
	defer conn.Close()

	ch, ok := h.subscribe()
	if !ok {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		return
	}
	defer h.unsubscribe(ch)

	// Reads only detect the client closing the connection.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("Change feed write failed: %v", err)
				return
			}
		case <-gone:
			return
		case <-h.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
			_ = conn.Close()
			<-gone
			return
		}
	}
}

// Close disconnects all subscribers and waits for their handlers to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.done)
	h.mu.Unlock()

	h.wg.Wait()
}
