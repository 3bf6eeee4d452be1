package views

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/internal/status"
	"github.com/truckline/dispatchdesk/pkg/api"
)

func TestSessionFrame(t *testing.T) {
	load := func(context.Context) ([]api.Order, error) { return sampleOrders(), nil }

	changes := make(chan struct{}, 8)
	s, err := Orders().open(load, nil, SessionOptions{
		RowsPerPage: 2,
		Registry:    status.NewRegistry(nil, nil),
		OnChange:    func() { changes <- struct{}{} },
	})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "orders", s.Name())
	assert.Equal(t, "Orders", s.Title())
	assert.Equal(t, listview.StateIdle, s.Frame().State)

	require.NoError(t, s.Refetch())
	s.ctrl.Wait()
	assert.Len(t, changes, 1)

	require.NoError(t, s.SelectBucket("pending"))
	require.NoError(t, s.ToggleSort("trackingCode"))

	f := s.Frame()
	assert.Equal(t, listview.StateReady, f.State)
	assert.Equal(t, Orders().Headers(), f.Headers)
	assert.Equal(t, "trackingCode", f.SortKeys[0])
	assert.Empty(t, f.SortKeys[1])

	assert.Equal(t, []string{"1", "2"}, f.IDs)
	assert.Equal(t, []string{"order A1", "order A2"}, f.Descriptions)
	require.Len(t, f.Rows, 2)
	assert.Equal(t, "A1", f.Rows[0][0])
	assert.Equal(t, "Chờ xử lý", f.Rows[0][4])
	assert.Equal(t, "yellow", f.Colors[0][4])
	assert.Empty(t, f.Colors[0][0])

	assert.Equal(t, "pending", f.Bucket)
	assert.True(t, f.Filtering)
	assert.Equal(t, 3, f.FilteredCount)
	assert.Equal(t, 5, f.TotalCount)
	assert.Equal(t, 2, f.PageCount)

	s.ChangePage(1)
	f = s.Frame()
	assert.Equal(t, []string{"3"}, f.IDs)

	s.ChangeRowsPerPage(25)
	f = s.Frame()
	assert.Equal(t, 0, f.Page)
	assert.Len(t, f.IDs, 3)
}

func TestSessionDelete(t *testing.T) {
	state, client := newBackendClient(t, nil)
	for _, o := range sampleOrders() {
		_, err := state.Add("orders", o)
		require.NoError(t, err)
	}

	sess, err := Orders().Open(client, SessionOptions{RowsPerPage: 10})
	require.NoError(t, err)
	defer sess.Close()

	s := sess.(*session[api.Order])

	require.NoError(t, s.Refetch())
	s.ctrl.Wait()
	require.Len(t, s.Frame().IDs, 5)

	s.SetQuery("A4")
	assert.Equal(t, []string{"5"}, s.Frame().IDs)

	require.NoError(t, s.Delete(context.Background(), "1"))
	s.ctrl.Wait()

	f := s.Frame()
	assert.Empty(t, f.Query)
	assert.Equal(t, 4, f.TotalCount)
	assert.NotContains(t, f.IDs, "1")
	assert.Empty(t, f.Colors[0][4])
}

func TestSessionDeleteErrors(t *testing.T) {
	boom := errors.New("backend refused")

	var removed []string
	remove := func(_ context.Context, id string) error {
		removed = append(removed, id)
		return boom
	}
	load := func(context.Context) ([]api.Order, error) { return sampleOrders(), nil }

	s, err := Orders().open(load, remove, SessionOptions{})
	require.NoError(t, err)
	defer s.Close()

	assert.Error(t, s.Delete(context.Background(), ""))
	assert.Empty(t, removed)

	err = s.Delete(context.Background(), "2")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "delete orders 2")
	assert.Equal(t, []string{"2"}, removed)
	assert.Equal(t, listview.StateIdle, s.Frame().State)
}
