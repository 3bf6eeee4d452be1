package mockbackend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/truckline/dispatchdesk/pkg/api"
	"github.com/truckline/dispatchdesk/pkg/api/testutils"
)

func newBackend(t *testing.T, state *State, opts ...Option) (*Server, *api.Client, *testutils.TestLogger) {
	t.Helper()

	srv, err := New(state, append([]Option{WithToken("test-token")}, opts...)...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})

	logger := testutils.NewTestLogger()
	client, err := api.NewClient(testutils.NewTestConfig(ts.URL),
		api.WithLogger(logger),
		api.WithRetry(1, time.Millisecond),
	)
	require.NoError(t, err)

	return srv, client, logger
}

func seededState(t *testing.T, n int) *State {
	t.Helper()

	state := NewState()
	require.NoError(t, state.Seed(42, n))

	return state
}

func TestListEveryShape(t *testing.T) {
	for _, shape := range []Shape{ShapeArray, ShapeData, ShapePaged} {
		t.Run(string(shape), func(t *testing.T) {
			state := seededState(t, 12)
			state.SetShape("orders", shape)
			_, client, _ := newBackend(t, state)

			orders, _, err := api.List[api.Order](context.Background(), client, api.EndpointOrders, api.ListQuery{})
			require.NoError(t, err)
			assert.Len(t, orders, 12)
			for _, o := range orders {
				assert.NotEmpty(t, o.ID)
				assert.NotEmpty(t, o.TrackingCode)
			}
		})
	}
}

func TestListBrokenShapeIsEmpty(t *testing.T) {
	state := seededState(t, 5)
	state.SetShape("trips", ShapeBroken)
	_, client, logger := newBackend(t, state)

	trips, total, err := api.List[api.Trip](context.Background(), client, api.EndpointTrips, api.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, trips)
	assert.Zero(t, total)
	testutils.AssertLogContains(t, logger, "warn", "Discarding /trips response")
}

func TestListServerSideFilters(t *testing.T) {
	state := NewState()
	for i, st := range []string{api.OrderStatusPending, api.OrderStatusPending, api.OrderStatusCompleted} {
		_, err := state.Add("orders", api.Order{TrackingCode: []string{"ABC1", "XYZ2", "ABC3"}[i], Status: st})
		require.NoError(t, err)
	}
	_, client, _ := newBackend(t, state)

	orders, total, err := api.List[api.Order](context.Background(), client, api.EndpointOrders,
		api.ListQuery{Search: "abc", Status: api.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ABC1", orders[0].TrackingCode)
	assert.Equal(t, 1, total)

	orders, total, err = api.List[api.Order](context.Background(), client, api.EndpointOrders,
		api.ListQuery{PageNumber: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ABC3", orders[0].TrackingCode)
	assert.Equal(t, 3, total)
}

func TestCreateAndDelete(t *testing.T) {
	state := NewState()
	_, client, _ := newBackend(t, state)
	ctx := context.Background()

	var created api.Order
	err := client.Create(ctx, api.EndpointOrders, api.Order{TrackingCode: "NEW1", Status: api.OrderStatusPending}, &created)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)
	assert.Equal(t, 1, state.Count("orders"))

	require.NoError(t, client.Delete(ctx, api.EndpointOrders, created.ID))
	assert.Zero(t, state.Count("orders"))

	err = client.Delete(ctx, api.EndpointOrders, created.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

func TestCreateIsValidated(t *testing.T) {
	state := NewState()
	_, client, _ := newBackend(t, state)

	err := client.Create(context.Background(), api.EndpointOrders, map[string]string{"status": "pending"}, nil)
	require.Error(t, err)

	var statusErr *api.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Zero(t, state.Count("orders"))
}

func TestValidationCanBeDisabled(t *testing.T) {
	state := NewState()
	_, client, _ := newBackend(t, state, WithValidation(false))

	err := client.Create(context.Background(), api.EndpointOrders, map[string]string{"status": "pending"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count("orders"))
}

func TestTokenIsRequired(t *testing.T) {
	srv, err := New(NewState(), WithToken("secret"))
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	defer ts.Close()
	defer srv.Close()

	client, err := api.NewClient(testutils.NewTestConfig(ts.URL), api.WithRetry(1, time.Millisecond))
	require.NoError(t, err)

	_, _, err = client.ListCollection(context.Background(), api.EndpointOrders, api.ListQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrUnauthorized))
}

func TestStatuses(t *testing.T) {
	_, client, _ := newBackend(t, NewState())

	defs, err := client.GetStatuses(context.Background(), "trips")
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	keys := make([]string, 0, len(defs))
	for _, d := range defs {
		assert.NotEmpty(t, d.Label)
		keys = append(keys, d.Key)
	}
	assert.Contains(t, keys, api.TripStatusDelaying)
}

func TestChangeFeed(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreCurrent(),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)

	state := NewState()
	srv, err := New(state)
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	defer ts.Close()
	defer srv.Close()

	cfg := testutils.NewTestConfig(ts.URL)
	cfg.Token = ""
	client, err := api.NewClient(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := client.SubscribeChanges(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return srv.hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, client.Create(ctx, api.EndpointTrailers, api.Trailer{PlateNumber: "51R-123.45"}, nil))

	select {
	case ev := <-events:
		assert.Equal(t, "trailers", ev.Collection)
		assert.Equal(t, api.ChangeCreated, ev.Action)
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no change event received")
	}

	cancel()
	for range events {
	}
	require.Eventually(t, func() bool { return srv.hub.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubCloseDisconnectsSubscribers(t *testing.T) {
	srv, err := New(NewState())
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	cfg := testutils.NewTestConfig(ts.URL)
	client, err := api.NewClient(cfg)
	require.NoError(t, err)

	events, err := client.SubscribeChanges(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return srv.hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	srv.Close()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("feed was not closed")
	}
}

func TestChurnPublishesUpdates(t *testing.T) {
	state := seededState(t, 3)
	srv, err := New(state)
	require.NoError(t, err)
	defer srv.Close()

	ch, ok := srv.hub.subscribe()
	require.True(t, ok)
	defer srv.hub.unsubscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Churn(ctx, time.Millisecond, func(n int) int { return 0 })
	}()

	select {
	case ev := <-ch:
		assert.Equal(t, "orders", ev.Collection)
		assert.Equal(t, api.ChangeUpdated, ev.Action)
		assert.Equal(t, state.IDs("orders")[0], ev.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("churn published nothing")
	}

	cancel()
	<-done
}
