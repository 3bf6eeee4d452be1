package listview

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/truckline/dispatchdesk/pkg/api/testutils"
)

func newOrderController(t *testing.T, load LoadFunc[testOrder], onChange func(Snapshot[testOrder])) *Controller[testOrder] {
	t.Helper()

	c, err := NewController(Options[testOrder]{
		Name:       "orders",
		Load:       load,
		Buckets:    orderBuckets(),
		Extractors: orderExtractors(),
		SortKeys:   orderSortKeys(),
		OnChange:   onChange,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c
}

func TestControllerRequiresLoad(t *testing.T) {
	_, err := NewController(Options[testOrder]{Name: "orders"})
	require.Error(t, err)
}

func TestControllerAddsAllBucket(t *testing.T) {
	c, err := NewController(Options[testOrder]{
		Name:    "orders",
		Load:    staticLoad(nil),
		Buckets: []Bucket[testOrder]{StatusBucket("pending", "Pending", orderStatus, "pending")},
	})
	require.NoError(t, err)
	defer c.Close()

	snap := c.Snapshot()
	require.Len(t, snap.Buckets, 2)
	assert.Equal(t, AllBucket, snap.Buckets[0].Key)
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, DefaultRowsPerPage, snap.RowsPerPage)
}

func TestControllerSearchWithinBucketKeepsBadges(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := newOrderController(t, staticLoad(twentyFiveOrders()), nil)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.SelectBucket("pending"))
	c.SetQuery("ABC123")

	snap := c.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, 2, snap.FilteredCount)
	assert.True(t, snap.Filtering)
	assert.Equal(t, 10, snap.Count("pending"))
	assert.Equal(t, 15, snap.Count("completed"))
	assert.Equal(t, 25, snap.Count(AllBucket))
	assert.Equal(t, []string{"o-03", "o-07"}, ids(snap.Rows))
}

func TestControllerPagination(t *testing.T) {
	c := newOrderController(t, staticLoad(twentyFiveOrders()), nil)
	require.NoError(t, c.Load(context.Background()))

	for page, want := range []int{10, 10, 5, 0} {
		c.ChangePage(page)
		snap := c.Snapshot()
		assert.Len(t, snap.Rows, want, "page %d", page)
		assert.Equal(t, page, snap.Page)
		assert.NoError(t, snap.Err)
		assert.Equal(t, 3, snap.PageCount)
	}

	c.ChangeRowsPerPage(25)
	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Page)
	assert.Len(t, snap.Rows, 25)
	assert.Equal(t, 1, snap.PageCount)
}

func TestControllerHugePageIsEmpty(t *testing.T) {
	c := newOrderController(t, staticLoad(twentyFiveOrders()), nil)
	require.NoError(t, c.Load(context.Background()))

	c.ChangePage(math.MaxInt/10 + 1)
	snap := c.Snapshot()
	assert.Empty(t, snap.Rows)
	assert.NoError(t, snap.Err)
	assert.Equal(t, 25, snap.TotalCount)
}

func TestControllerTransitionsResetPage(t *testing.T) {
	c := newOrderController(t, staticLoad(twentyFiveOrders()), nil)
	require.NoError(t, c.Load(context.Background()))
	require.NoError(t, c.SetSort("createdAt", DirDesc))

	c.ChangePage(2)
	require.NoError(t, c.SelectBucket("completed"))
	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Page)
	assert.Equal(t, "createdAt", snap.SortKey)
	assert.Equal(t, DirDesc, snap.Direction)

	c.SetQuery("abc")
	c.ChangePage(1)
	require.NoError(t, c.SelectBucket("pending"))
	snap = c.Snapshot()
	assert.Equal(t, 0, snap.Page)
	assert.Equal(t, "abc", snap.Query)
	assert.Equal(t, "pending", snap.Bucket)

	c.ChangePage(1)
	c.SetQuery("trk")
	assert.Equal(t, 0, c.Snapshot().Page)

	assert.Error(t, c.SelectBucket("unknown"))
	assert.Error(t, c.SetSort("unknown", DirAsc))
}

func TestControllerSortToggle(t *testing.T) {
	c := newOrderController(t, staticLoad(twentyFiveOrders()), nil)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.ToggleSort("createdAt"))
	assert.Equal(t, "o-00", c.Snapshot().Rows[0].ID)

	require.NoError(t, c.ToggleSort("createdAt"))
	assert.Equal(t, "o-24", c.Snapshot().Rows[0].ID)

	require.NoError(t, c.ToggleSort("createdAt"))
	snap := c.Snapshot()
	assert.Equal(t, DirNone, snap.Direction)
	assert.Equal(t, "o-00", snap.Rows[0].ID)

	require.NoError(t, c.ToggleSort("tracking"))
	assert.Equal(t, DirAsc, c.Snapshot().Direction)
}

func TestControllerRefetchClearsFilters(t *testing.T) {
	defer goleak.VerifyNone(t)

	changes := make(chan Snapshot[testOrder], 4)
	c := newOrderController(t, staticLoad(twentyFiveOrders()), func(s Snapshot[testOrder]) {
		changes <- s
	})
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.SelectBucket("pending"))
	c.SetQuery("abc")
	require.NoError(t, c.SetSort("createdAt", DirAsc))

	require.NoError(t, c.Refetch())
	loading := c.Snapshot()
	assert.Equal(t, "", loading.Query)
	assert.Equal(t, AllBucket, loading.Bucket)

	snap := waitSnapshot(t, changes)
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "", snap.Query)
	assert.Equal(t, AllBucket, snap.Bucket)
	assert.Equal(t, 0, snap.Page)
	assert.Equal(t, "createdAt", snap.SortKey)
	assert.Equal(t, 25, snap.FilteredCount)

	c.Wait()
}

func TestControllerReloadKeepsFiltersAndClampsPage(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex
	data := twentyFiveOrders()
	load := func(context.Context) ([]testOrder, error) {
		mu.Lock()
		defer mu.Unlock()
		return data, nil
	}

	changes := make(chan Snapshot[testOrder], 4)
	c := newOrderController(t, load, func(s Snapshot[testOrder]) { changes <- s })
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.SelectBucket("completed"))
	c.SetQuery("trk")
	c.ChangeRowsPerPage(5)
	c.ChangePage(2)

	// 14 completed TRK orders still reach page 2.
	require.NoError(t, c.Reload())
	snap := waitSnapshot(t, changes)
	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, 14, snap.FilteredCount)

	mu.Lock()
	data = data[:14]
	mu.Unlock()

	require.NoError(t, c.Reload())
	snap = waitSnapshot(t, changes)
	assert.Equal(t, 0, snap.Page)
	assert.Equal(t, "completed", snap.Bucket)
	assert.Equal(t, "trk", snap.Query)
	assert.Equal(t, 4, snap.FilteredCount)
	assert.Len(t, snap.Rows, 4)

	c.Wait()
}

func TestControllerFetchFailureIsNonFatal(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger := testutils.NewTestLogger()
	c, err := NewController(Options[testOrder]{
		Name:    "orders",
		Buckets: orderBuckets(),
		Logger:  logger,
		Load: func(context.Context) ([]testOrder, error) {
			return nil, errors.New("status 502")
		},
	})
	require.NoError(t, err)
	defer c.Close()

	err = c.Load(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)

	snap := c.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Error(t, snap.Err)
	assert.Empty(t, snap.Rows)
	assert.Zero(t, snap.Count("pending"))
	testutils.AssertLogContains(t, logger, "error", "status 502")
}

func TestControllerStaleResponseIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var callsMu sync.Mutex

	stale := twentyFiveOrders()
	fresh := twentyFiveOrders()[:4]

	load := func(ctx context.Context) ([]testOrder, error) {
		callsMu.Lock()
		calls++
		n := calls
		callsMu.Unlock()

		if n == 1 {
			close(started)
			<-release
			return stale, nil
		}
		return fresh, nil
	}

	changes := make(chan Snapshot[testOrder], 4)
	c := newOrderController(t, load, func(s Snapshot[testOrder]) { changes <- s })

	require.NoError(t, c.Refetch())
	<-started

	c.SetQuery("trk")
	require.NoError(t, c.Reload())

	snap := waitSnapshot(t, changes)
	assert.Equal(t, 4, snap.TotalCount)

	close(release)
	c.Wait()

	snap = c.Snapshot()
	assert.Equal(t, 4, snap.TotalCount)
	assert.Equal(t, "trk", snap.Query)
	assert.Equal(t, []string{"o-00", "o-01", "o-02"}, ids(snap.Rows))
	assert.Empty(t, changes)
}

func TestControllerCloseDiscardsLateResults(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	called := false
	c, err := NewController(Options[testOrder]{
		Name: "orders",
		Load: func(ctx context.Context) ([]testOrder, error) {
			close(started)
			<-ctx.Done()
			return twentyFiveOrders(), nil
		},
		OnChange: func(Snapshot[testOrder]) { called = true },
	})
	require.NoError(t, err)

	require.NoError(t, c.Refetch())
	<-started
	c.Close()

	assert.False(t, called)
	assert.Zero(t, c.Snapshot().TotalCount)
	assert.ErrorIs(t, c.Refetch(), ErrClosed)
	assert.ErrorIs(t, c.Reload(), ErrClosed)
	assert.ErrorIs(t, c.Load(context.Background()), ErrClosed)
}

func waitSnapshot(t *testing.T, ch <-chan Snapshot[testOrder]) Snapshot[testOrder] {
	t.Helper()

	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot[testOrder]{}
	}
}
