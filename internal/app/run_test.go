package app

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truckline/dispatchdesk/internal/cache"
	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/internal/views"
	"github.com/truckline/dispatchdesk/pkg/api"
	"github.com/truckline/dispatchdesk/pkg/mockbackend"
)

func newSeededBackend(t *testing.T, n int) *httptest.Server {
	t.Helper()

	state := mockbackend.NewState()
	require.NoError(t, state.Seed(42, n))

	srv, err := mockbackend.New(state)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})

	return ts
}

func testConfig(t *testing.T, addr string) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Addr = addr
	cfg.CacheDir = t.TempDir()
	cfg.SetDefaults()

	return cfg
}

func TestSetupEndToEnd(t *testing.T) {
	ts := newSeededBackend(t, 30)
	cfg := testConfig(t, ts.URL)

	client, err := Setup(cfg, Options{NoCache: true, Stderr: true})
	require.NoError(t, err)
	assert.Equal(t, ts.URL, client.BaseURL())

	ctx := context.Background()
	reg := LoadStatuses(ctx, client, client.Logger())
	assert.Equal(t, "Chờ xử lý", reg.Label("orders", api.OrderStatusPending))

	for _, v := range views.All() {
		win, err := v.Window(ctx, client, views.WindowRequest{Bucket: "all", RowsPerPage: 10}, reg)
		require.NoError(t, err, v.Name())
		assert.Equal(t, 30, win.TotalCount, v.Name())
		assert.Len(t, win.Rows, 10, v.Name())
	}
}

func TestSetupWithPersistentCache(t *testing.T) {
	ts := newSeededBackend(t, 5)
	cfg := testConfig(t, ts.URL)

	client, err := Setup(cfg, Options{Stderr: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.CloseGlobalCache() })

	summaries := views.LoadDashboard(context.Background(), client, views.All())
	require.Len(t, summaries, len(views.All()))

	for _, s := range summaries {
		assert.NoError(t, s.Err, s.Name)
		assert.Equal(t, 5, s.Total, s.Name)
	}
}

func TestSetupRejectsMissingAddress(t *testing.T) {
	cfg := testConfig(t, "")

	_, err := Setup(cfg, Options{NoCache: true, Stderr: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address")
}
