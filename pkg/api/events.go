package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Change actions published on the change feed.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// ChangeEvent notifies that an entity in a collection changed on the backend.
// Collection is the endpoint name without slashes, e.g. "orders".
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
}

// ChangesURL returns the websocket URL of the change feed.
func (c *Client) ChangesURL() string {
	u := c.baseURL + c.apiPath + EndpointChanges

	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	default:
		return u
	}
}

// SubscribeChanges opens the backend change feed. Events are delivered on
// the returned channel until ctx is cancelled or the connection drops, after
// which the channel is closed.
func (c *Client) SubscribeChanges(ctx context.Context) (<-chan ChangeEvent, error) {
	dialer := websocket.Dialer{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: c.insecure, //nolint:gosec // opt-in via config
		},
		HandshakeTimeout: 10 * time.Second,
	}

	headers := make(http.Header)
	if c.token != "" {
		headers.Set(HeaderAuthorization, "Bearer "+c.token)
	}

	conn, resp, err := dialer.DialContext(ctx, c.ChangesURL(), headers)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to change feed (status %d): %w", resp.StatusCode, err)
		}

		return nil, fmt.Errorf("failed to connect to change feed: %w", err)
	}

	c.logger.Debug("Subscribed to change feed at %s", c.ChangesURL())

	events := make(chan ChangeEvent)
	done := make(chan struct{})

	// Closing the connection is the only way to unblock ReadMessage.
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	go func() {
		defer close(events)
		defer close(done)

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.logger.Warn("Change feed closed: %v", err)
				}

				return
			}

			var event ChangeEvent
			if err := json.Unmarshal(message, &event); err != nil {
				c.logger.Debug("Ignoring malformed change event: %v", err)

				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
