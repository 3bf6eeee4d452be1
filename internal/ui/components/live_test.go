package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/truckline/dispatchdesk/pkg/api"
)

func TestChangeBatch(t *testing.T) {
	b := newChangeBatch([]string{"orders", "trips", "incidents"})

	assert.True(t, b.add(api.ChangeEvent{Collection: "incidents", Action: api.ChangeUpdated, ID: "1"}))
	assert.True(t, b.add(api.ChangeEvent{Collection: "orders", Action: api.ChangeCreated, ID: "2"}))
	assert.True(t, b.add(api.ChangeEvent{Collection: "orders", Action: api.ChangeDeleted, ID: "3"}))
	assert.False(t, b.add(api.ChangeEvent{Collection: "drivers", ID: "4"}))

	assert.Equal(t, []string{"orders", "incidents"}, b.drain(), "navigation order, one entry per collection")
	assert.Empty(t, b.drain())
}

func TestFooterLiveStatus(t *testing.T) {
	f := NewFooter()
	f.UpdateKeybindings("keys")

	assert.Equal(t, "keys", f.GetText(false))

	f.UpdateLiveStatus(liveConnected)
	assert.Contains(t, f.GetText(true), "live")

	f.UpdateLiveStatus(liveConnecting)
	assert.Contains(t, f.GetText(true), "reconnecting")

	f.UpdateLiveStatus(liveDisabled)
	assert.Equal(t, "keys", f.GetText(true))
}
