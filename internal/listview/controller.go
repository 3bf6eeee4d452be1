// Package listview implements the data pipeline shared by every entity
// table: fetch the full collection, partition it into status buckets, filter
// the selected bucket by free text, sort, and cut out one page.
package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// Options configures a Controller.
type Options[T any] struct {
	// Name identifies the view in logs and errors, e.g. "orders".
	Name string

	Load       LoadFunc[T]
	Buckets    []Bucket[T]
	Extractors []Extractor[T]
	SortKeys   []SortKey[T]

	// RowsPerPage defaults to DefaultRowsPerPage.
	RowsPerPage int

	Logger interfaces.Logger

	// OnChange is called from fetch goroutines after a result was applied.
	// It must not call Close.
	OnChange func(Snapshot[T])
}

// Snapshot is everything the rendering layer needs for one frame.
type Snapshot[T any] struct {
	State State
	Err   error

	Rows          []T
	FilteredCount int
	TotalCount    int
	Buckets       []BucketCount

	Bucket    string
	Query     string
	Filtering bool
	SortKey   string
	Direction Direction

	Page        int
	RowsPerPage int
	PageCount   int
}

// Count returns the count of bucket key.
func (s Snapshot[T]) Count(key string) int {
	for _, b := range s.Buckets {
		if b.Key == key {
			return b.Count
		}
	}

	return 0
}

// Controller composes the list-view pipeline for one view. It exclusively
// owns the collection and the filter state.
type Controller[T any] struct {
	mu sync.Mutex

	name       string
	fetcher    *Fetcher[T]
	buckets    []Bucket[T]
	extractors []Extractor[T]
	sortKeys   []SortKey[T]
	onChange   func(Snapshot[T])
	logger     interfaces.Logger

	query   string
	bucket  string
	sortKey string
	dir     Direction
	pager   Paginator

	counts    map[string]int
	countsGen uint64
	countsSet bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// NewController builds a controller in the Idle state. Nothing is fetched
// until Refetch, Reload or Load is called.
func NewController[T any](opts Options[T]) (*Controller[T], error) {
	if opts.Load == nil {
		return nil, fmt.Errorf("list view %q: load function is required", opts.Name)
	}

	logger := opts.Logger
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	buckets := opts.Buckets
	if _, ok := findBucket(buckets, AllBucket); !ok {
		buckets = append([]Bucket[T]{All[T]("All")}, buckets...)
	}

	rowsPerPage := opts.RowsPerPage
	if rowsPerPage <= 0 {
		rowsPerPage = DefaultRowsPerPage
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Controller[T]{
		name:       opts.Name,
		fetcher:    NewFetcher(opts.Name, opts.Load, logger),
		buckets:    buckets,
		extractors: opts.Extractors,
		sortKeys:   opts.SortKeys,
		onChange:   opts.OnChange,
		logger:     logger,
		bucket:     AllBucket,
		pager:      Paginator{RowsPerPage: rowsPerPage},
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Name returns the view name.
func (c *Controller[T]) Name() string {
	return c.name
}

// SortKeys returns the sortable columns.
func (c *Controller[T]) SortKeys() []SortKey[T] {
	return c.sortKeys
}

// SelectBucket switches to bucket key. The page resets; query and sort are
// kept.
func (c *Controller[T]) SelectBucket(key string) error {
	if _, ok := findBucket(c.buckets, key); !ok {
		return fmt.Errorf("list view %q: unknown bucket %q", c.name, key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.bucket = key
	c.pager.Reset()

	return nil
}

// SetQuery sets the free-text query and resets the page.
func (c *Controller[T]) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = query
	c.pager.Reset()
}

// SetSort sets the sort column and direction. An empty key clears sorting.
func (c *Controller[T]) SetSort(key string, dir Direction) error {
	if key != "" {
		if _, ok := findSortKey(c.sortKeys, key); !ok {
			return fmt.Errorf("list view %q: unknown sort key %q", c.name, key)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if key == "" {
		dir = DirNone
	}

	c.sortKey = key
	c.dir = dir

	return nil
}

// ToggleSort cycles the direction of key, starting at ascending when key is
// not the current sort column.
func (c *Controller[T]) ToggleSort(key string) error {
	c.mu.Lock()
	next := DirAsc
	if c.sortKey == key {
		next = c.dir.Next()
	}
	c.mu.Unlock()

	return c.SetSort(key, next)
}

// ChangePage moves to page. Out-of-range pages render no rows.
func (c *Controller[T]) ChangePage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pager.ChangePage(page)
}

// ChangeRowsPerPage changes the window size and returns to page 0.
func (c *Controller[T]) ChangeRowsPerPage(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pager.ChangeRowsPerPage(size)
}

// Refetch reloads the collection after a local create or delete, or on a
// manual refresh. Query and bucket are cleared and the page resets.
func (c *Controller[T]) Refetch() error {
	c.mu.Lock()
	c.query = ""
	c.bucket = AllBucket
	c.pager.Reset()
	c.mu.Unlock()

	return c.launch(false)
}

// Reload refetches on a backend change notification and keeps the filter
// state. The page resets only when the new data no longer reaches it.
func (c *Controller[T]) Reload() error {
	return c.launch(true)
}

// Load fetches synchronously and keeps the filter state. It returns the
// FetchError of a failed load.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	_, err := c.fetcher.Fetch(ctx)
	if errors.Is(err, ErrSuperseded) || errors.Is(err, ErrClosed) {
		return err
	}

	c.clampPage()

	return err
}

func (c *Controller[T]) launch(clamp bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	req, err := c.fetcher.begin(c.ctx)
	if err != nil {
		return err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		_, err := c.fetcher.run(req)
		if errors.Is(err, ErrSuperseded) || errors.Is(err, ErrClosed) {
			return
		}

		if clamp {
			c.clampPage()
		}

		if c.onChange != nil {
			c.onChange(c.Snapshot())
		}
	}()

	return nil
}

// clampPage returns to page 0 when the current page starts past the
// filtered result.
func (c *Controller[T]) clampPage() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pager.Page == 0 {
		return
	}

	items, _ := c.fetcher.view()
	filtered, _ := c.filteredLocked(items)
	if pageOutOfRange(len(filtered), c.pager.Page, c.pager.RowsPerPage) {
		c.logger.Debug("%s: page %d out of range after reload, resetting", c.name, c.pager.Page)
		c.pager.Reset()
	}
}

// Wait blocks until in-flight background fetches finish.
func (c *Controller[T]) Wait() {
	c.wg.Wait()
}

// Close tears the view down. In-flight fetches are cancelled and their
// results discarded.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.fetcher.Close()
	c.cancel()
	c.wg.Wait()
}

// Snapshot runs the pipeline over the held collection.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, status := c.fetcher.view()
	counts := c.countsLocked(items, status.Generation)

	filtered, filtering := c.filteredLocked(items)

	sorted := filtered
	if key, ok := findSortKey(c.sortKeys, c.sortKey); ok {
		sorted = Sort(filtered, key, c.dir)
	}

	bucketCounts := make([]BucketCount, 0, len(c.buckets))
	for _, b := range c.buckets {
		bucketCounts = append(bucketCounts, BucketCount{Key: b.Key, Label: b.Label, Count: counts[b.Key]})
	}

	return Snapshot[T]{
		State:         status.State,
		Err:           status.Err,
		Rows:          Paginate(sorted, c.pager.Page, c.pager.RowsPerPage),
		FilteredCount: len(filtered),
		TotalCount:    len(items),
		Buckets:       bucketCounts,
		Bucket:        c.bucket,
		Query:         c.query,
		Filtering:     filtering,
		SortKey:       c.sortKey,
		Direction:     c.dir,
		Page:          c.pager.Page,
		RowsPerPage:   c.pager.RowsPerPage,
		PageCount:     PageCount(len(filtered), c.pager.RowsPerPage),
	}
}

// countsLocked memoizes bucket counts per collection generation.
func (c *Controller[T]) countsLocked(items []T, generation uint64) map[string]int {
	if c.countsSet && c.countsGen == generation {
		return c.counts
	}

	c.counts = Partition(items, c.buckets)
	c.countsGen = generation
	c.countsSet = true

	return c.counts
}

func (c *Controller[T]) filteredLocked(items []T) ([]T, bool) {
	bucket, ok := findBucket(c.buckets, c.bucket)
	if !ok {
		bucket = All[T]("")
	}

	return Filter(Select(items, bucket), c.query, c.extractors)
}
