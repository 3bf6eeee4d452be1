// Package views defines the entity list views of the console: which
// buckets, search fields, sort keys and columns each one has, and where its
// collection lives on the backend.
package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/internal/status"
	"github.com/truckline/dispatchdesk/pkg/api"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// ColumnKind selects how a cell is formatted.
type ColumnKind int

const (
	ColText ColumnKind = iota
	ColStatus
	ColDate
)

// Column is one table column of a view.
type Column[T any] struct {
	Title   string
	Kind    ColumnKind
	Value   func(T) string
	SortKey string
	// MaxWidth truncates long cells; zero means unlimited.
	MaxWidth int
}

// Definition is the static description of an entity view.
type Definition[T any] struct {
	// Entity is the collection name, also used as status registry key.
	Entity     string
	Heading    string
	Path       string
	Buckets    []listview.Bucket[T]
	Extractors []listview.Extractor[T]
	SortKeys   []listview.SortKey[T]
	Columns    []Column[T]
	ID         func(T) string
	// Describe is shown in the delete confirmation.
	Describe func(T) string
}

// View is the type-erased form of a Definition used by the dashboard, the
// list command and the navigation shell.
type View interface {
	Name() string
	Title() string
	Endpoint() string
	BucketKeys() []string
	SortKeyNames() []string
	Summarize(ctx context.Context, client *api.Client) Summary
	Window(ctx context.Context, client *api.Client, req WindowRequest, reg *status.Registry) (Window, error)
	Open(client *api.Client, opts SessionOptions) (Session, error)
}

// WindowRequest is the filter state for a one-shot Window.
type WindowRequest struct {
	Bucket      string
	Query       string
	SortKey     string
	Direction   listview.Direction
	Page        int
	RowsPerPage int
	Logger      interfaces.Logger
}

// Window is a rendered result window.
type Window struct {
	Headers       []string
	Rows          [][]string
	Buckets       []listview.BucketCount
	Bucket        string
	Filtering     bool
	FilteredCount int
	TotalCount    int
	Page          int
	PageCount     int
	RowsPerPage   int
}

// ControllerOptions are the runtime settings of a view's controller.
type ControllerOptions[T any] struct {
	RowsPerPage int
	Logger      interfaces.Logger
	OnChange    func(listview.Snapshot[T])
}

// Name implements View.
func (d *Definition[T]) Name() string { return d.Entity }

// Title implements View.
func (d *Definition[T]) Title() string { return d.Heading }

// Endpoint implements View.
func (d *Definition[T]) Endpoint() string { return d.Path }

// BucketKeys implements View.
func (d *Definition[T]) BucketKeys() []string {
	keys := make([]string, 0, len(d.Buckets))
	for _, b := range d.Buckets {
		keys = append(keys, b.Key)
	}

	return keys
}

// SortKeyNames implements View.
func (d *Definition[T]) SortKeyNames() []string {
	keys := make([]string, 0, len(d.SortKeys))
	for _, k := range d.SortKeys {
		keys = append(keys, k.Key)
	}

	return keys
}

// Headers returns the column titles.
func (d *Definition[T]) Headers() []string {
	headers := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		headers = append(headers, c.Title)
	}

	return headers
}

// Load returns the full-collection loader for this view.
func (d *Definition[T]) Load(client *api.Client) listview.LoadFunc[T] {
	return api.FetchAll[T](client, d.Path)
}

// NewController builds the list-view controller for this view.
func (d *Definition[T]) NewController(load listview.LoadFunc[T], opts ControllerOptions[T]) (*listview.Controller[T], error) {
	return listview.NewController(listview.Options[T]{
		Name:        d.Entity,
		Load:        load,
		Buckets:     d.Buckets,
		Extractors:  d.Extractors,
		SortKeys:    d.SortKeys,
		RowsPerPage: opts.RowsPerPage,
		Logger:      opts.Logger,
		OnChange:    opts.OnChange,
	})
}

// Window loads the collection once and returns the requested page.
func (d *Definition[T]) Window(ctx context.Context, client *api.Client, req WindowRequest, reg *status.Registry) (Window, error) {
	return d.window(ctx, d.Load(client), req, reg)
}

func (d *Definition[T]) window(ctx context.Context, load listview.LoadFunc[T], req WindowRequest, reg *status.Registry) (Window, error) {
	ctrl, err := d.NewController(load, ControllerOptions[T]{RowsPerPage: req.RowsPerPage, Logger: req.Logger})
	if err != nil {
		return Window{}, err
	}
	defer ctrl.Close()

	if req.Bucket != "" {
		if err := ctrl.SelectBucket(req.Bucket); err != nil {
			return Window{}, err
		}
	}

	if req.SortKey != "" {
		dir := req.Direction
		if dir == listview.DirNone {
			dir = listview.DirAsc
		}
		if err := ctrl.SetSort(req.SortKey, dir); err != nil {
			return Window{}, err
		}
	}

	ctrl.SetQuery(req.Query)

	if err := ctrl.Load(ctx); err != nil {
		return Window{}, err
	}

	ctrl.ChangePage(req.Page)
	snap := ctrl.Snapshot()

	rows := make([][]string, 0, len(snap.Rows))
	for _, item := range snap.Rows {
		rows = append(rows, d.Cells(item, reg, false))
	}

	return Window{
		Headers:       d.Headers(),
		Rows:          rows,
		Buckets:       snap.Buckets,
		Bucket:        snap.Bucket,
		Filtering:     snap.Filtering,
		FilteredCount: snap.FilteredCount,
		TotalCount:    snap.TotalCount,
		Page:          snap.Page,
		PageCount:     snap.PageCount,
		RowsPerPage:   snap.RowsPerPage,
	}, nil
}

// Cells formats one row. Relative dates are used by the interactive table.
func (d *Definition[T]) Cells(item T, reg *status.Registry, relative bool) []string {
	cells := make([]string, 0, len(d.Columns))
	for _, col := range d.Columns {
		cells = append(cells, d.Cell(col, item, reg, relative))
	}

	return cells
}

// Cell formats the value of col for item.
func (d *Definition[T]) Cell(col Column[T], item T, reg *status.Registry, relative bool) string {
	raw := ""
	if col.Value != nil {
		raw = col.Value(item)
	}

	var text string
	switch col.Kind {
	case ColStatus:
		if reg == nil {
			text = raw
		} else {
			text = reg.Label(d.Entity, raw)
		}
	case ColDate:
		text = FormatDate(raw, relative)
	default:
		text = strings.TrimSpace(raw)
	}

	if text == "" {
		text = "-"
	}

	return Truncate(text, col.MaxWidth)
}

// DescribeItem returns the confirmation text for item.
func (d *Definition[T]) DescribeItem(item T) string {
	if d.Describe != nil {
		return d.Describe(item)
	}

	return fmt.Sprintf("%s %s", d.Entity, d.ID(item))
}
