package views

import (
	"context"
	"fmt"

	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/internal/status"
	"github.com/truckline/dispatchdesk/pkg/api"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// SessionOptions configure a live view.
type SessionOptions struct {
	RowsPerPage int
	Registry    *status.Registry
	Logger      interfaces.Logger
	// OnChange runs on a fetch goroutine whenever new data was applied.
	OnChange func()
}

// Frame is a formatted snapshot of a live view.
type Frame struct {
	State listview.State
	Err   error

	Headers []string
	// SortKeys holds the sort key of each column, or "" if it is not
	// sortable.
	SortKeys []string
	Rows     [][]string
	// Colors holds a color name per cell for status columns, "" elsewhere.
	Colors       [][]string
	IDs          []string
	Descriptions []string

	Buckets   []listview.BucketCount
	Bucket    string
	Query     string
	Filtering bool
	SortKey   string
	Direction listview.Direction

	FilteredCount int
	TotalCount    int
	Page          int
	PageCount     int
	RowsPerPage   int
}

// Session is a live, type-erased list view backed by a controller.
type Session interface {
	Name() string
	Title() string

	Refetch() error
	Reload() error

	SelectBucket(key string) error
	SetQuery(query string)
	ToggleSort(key string) error
	ChangePage(page int)
	ChangeRowsPerPage(size int)

	Frame() Frame

	// Delete removes the entity with id on the backend and refetches.
	Delete(ctx context.Context, id string) error

	Close()
}

type session[T any] struct {
	def    *Definition[T]
	ctrl   *listview.Controller[T]
	remove func(ctx context.Context, id string) error
	reg    *status.Registry
}

// Open implements View.
func (d *Definition[T]) Open(client *api.Client, opts SessionOptions) (Session, error) {
	remove := func(ctx context.Context, id string) error {
		return client.Delete(ctx, d.Path, id)
	}

	return d.open(d.Load(client), remove, opts)
}

func (d *Definition[T]) open(load listview.LoadFunc[T], remove func(context.Context, string) error, opts SessionOptions) (*session[T], error) {
	var onChange func(listview.Snapshot[T])
	if opts.OnChange != nil {
		onChange = func(listview.Snapshot[T]) { opts.OnChange() }
	}

	ctrl, err := d.NewController(load, ControllerOptions[T]{
		RowsPerPage: opts.RowsPerPage,
		Logger:      opts.Logger,
		OnChange:    onChange,
	})
	if err != nil {
		return nil, err
	}

	return &session[T]{def: d, ctrl: ctrl, remove: remove, reg: opts.Registry}, nil
}

func (s *session[T]) Name() string  { return s.def.Entity }
func (s *session[T]) Title() string { return s.def.Heading }

func (s *session[T]) Refetch() error { return s.ctrl.Refetch() }
func (s *session[T]) Reload() error  { return s.ctrl.Reload() }

func (s *session[T]) SelectBucket(key string) error { return s.ctrl.SelectBucket(key) }
func (s *session[T]) SetQuery(query string)         { s.ctrl.SetQuery(query) }
func (s *session[T]) ToggleSort(key string) error   { return s.ctrl.ToggleSort(key) }
func (s *session[T]) ChangePage(page int)           { s.ctrl.ChangePage(page) }
func (s *session[T]) ChangeRowsPerPage(size int)    { s.ctrl.ChangeRowsPerPage(size) }

func (s *session[T]) Close() { s.ctrl.Close() }

func (s *session[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%s: cannot delete an entity without id", s.def.Entity)
	}

	if err := s.remove(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", s.def.Entity, id, err)
	}

	return s.ctrl.Refetch()
}

func (s *session[T]) Frame() Frame {
	snap := s.ctrl.Snapshot()

	f := Frame{
		State:         snap.State,
		Err:           snap.Err,
		Headers:       s.def.Headers(),
		SortKeys:      make([]string, 0, len(s.def.Columns)),
		Rows:          make([][]string, 0, len(snap.Rows)),
		Colors:        make([][]string, 0, len(snap.Rows)),
		IDs:           make([]string, 0, len(snap.Rows)),
		Descriptions:  make([]string, 0, len(snap.Rows)),
		Buckets:       snap.Buckets,
		Bucket:        snap.Bucket,
		Query:         snap.Query,
		Filtering:     snap.Filtering,
		SortKey:       snap.SortKey,
		Direction:     snap.Direction,
		FilteredCount: snap.FilteredCount,
		TotalCount:    snap.TotalCount,
		Page:          snap.Page,
		PageCount:     snap.PageCount,
		RowsPerPage:   snap.RowsPerPage,
	}

	for _, col := range s.def.Columns {
		f.SortKeys = append(f.SortKeys, col.SortKey)
	}

	for _, item := range snap.Rows {
		f.Rows = append(f.Rows, s.def.Cells(item, s.reg, true))
		f.Colors = append(f.Colors, s.colors(item))
		f.IDs = append(f.IDs, s.def.ID(item))
		f.Descriptions = append(f.Descriptions, s.def.DescribeItem(item))
	}

	return f
}

func (s *session[T]) colors(item T) []string {
	colors := make([]string, len(s.def.Columns))
	if s.reg == nil {
		return colors
	}

	for i, col := range s.def.Columns {
		if col.Kind == ColStatus && col.Value != nil {
			colors[i] = s.reg.Color(s.def.Entity, col.Value(item))
		}
	}

	return colors
}
