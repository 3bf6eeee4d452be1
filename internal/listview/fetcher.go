package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

var (
	// ErrClosed is returned once the owning view has been torn down.
	ErrClosed = errors.New("list view closed")

	// ErrSuperseded is returned by a fetch whose result was discarded
	// because a newer fetch was issued.
	ErrSuperseded = errors.New("fetch superseded by a newer request")
)

// State is the lifecycle state of a list view.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// FetchError wraps a failed collection load.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// LoadFunc retrieves the full collection from the backend.
type LoadFunc[T any] func(ctx context.Context) ([]T, error)

// Fetcher owns a collection, its loading state and the request sequence.
// Only the most recently issued request may apply its result; issuing a new
// request cancels the context of the previous one.
type Fetcher[T any] struct {
	mu     sync.Mutex
	source string
	load   LoadFunc[T]
	logger interfaces.Logger

	seq        uint64
	cancel     context.CancelFunc
	closed     bool
	state      State
	items      []T
	err        error
	generation uint64
}

// NewFetcher creates a fetcher named source (used in logs and errors).
func NewFetcher[T any](source string, load LoadFunc[T], logger interfaces.Logger) *Fetcher[T] {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &Fetcher[T]{
		source: source,
		load:   load,
		logger: logger,
	}
}

// Fetch loads the collection and applies it unless a newer fetch was issued
// meanwhile or the fetcher was closed.
func (f *Fetcher[T]) Fetch(ctx context.Context) ([]T, error) {
	req, err := f.begin(ctx)
	if err != nil {
		return nil, err
	}

	return f.run(req)
}

// request is one issued fetch.
type request struct {
	ctx    context.Context
	cancel context.CancelFunc
	seq    uint64
}

func (f *Fetcher[T]) begin(parent context.Context) (request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return request{}, ErrClosed
	}

	if f.cancel != nil {
		f.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	f.seq++
	f.cancel = cancel
	f.state = StateLoading

	f.logger.Debug("Fetching %s (request %d)", f.source, f.seq)

	return request{ctx: ctx, cancel: cancel, seq: f.seq}, nil
}

func (f *Fetcher[T]) run(req request) ([]T, error) {
	defer req.cancel()

	items, loadErr := f.load(req.ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		f.logger.Debug("Discarding %s result %d: view closed", f.source, req.seq)
		return nil, ErrClosed
	}

	if req.seq != f.seq {
		f.logger.Debug("Discarding stale %s result %d (latest %d)", f.source, req.seq, f.seq)
		return nil, ErrSuperseded
	}

	f.cancel = nil
	f.generation++

	if loadErr != nil {
		f.items = nil
		f.err = &FetchError{Source: f.source, Err: loadErr}
		f.state = StateError
		f.logger.Error("Failed to fetch %s: %v", f.source, loadErr)

		return nil, f.err
	}

	if items == nil {
		items = []T{}
	}

	f.items = items
	f.err = nil
	f.state = StateReady
	f.logger.Debug("Fetched %d %s", len(items), f.source)

	return items, nil
}

// Items returns the held collection. Callers must not modify it.
func (f *Fetcher[T]) Items() []T {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.items
}

// FetchStatus describes the fetcher's lifecycle state. Generation changes
// every time a result is applied.
type FetchStatus struct {
	State      State
	Err        error
	Generation uint64
}

// Status returns the current fetch status.
func (f *Fetcher[T]) Status() FetchStatus {
	_, status := f.view()

	return status
}

func (f *Fetcher[T]) view() ([]T, FetchStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.items, FetchStatus{State: f.state, Err: f.err, Generation: f.generation}
}

// Close cancels any in-flight request. Results arriving later are dropped.
func (f *Fetcher[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	f.closed = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}
