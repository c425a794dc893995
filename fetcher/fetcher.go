// Package fetcher implements paginated retrieval with append semantics for incremental list loading.
package fetcher

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned by First when a fetch is already running.
var ErrInFlight = errors.New("fetcher: fetch already in flight")

// FetchFunc retrieves one page of items starting at offset, at most limit long.
type FetchFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Fetcher holds an append-only list fed one page at a time.
//
// The cursor advances by the number of items actually returned, not by the
// nominal page size, so short final pages do not skip entries. A page of zero
// items marks the list exhausted; further More calls are no-ops until First
// resets the state. Only one fetch runs at a time.
type Fetcher[T any] struct {
	fetch FetchFunc[T]
	limit int

	mu        sync.Mutex
	offset    int
	items     []T
	loading   bool
	exhausted bool
}

// New constructs a fetcher with the given nominal page size.
func New[T any](limit int, fetch FetchFunc[T]) *Fetcher[T] {
	return &Fetcher[T]{fetch: fetch, limit: limit}
}

// First resets the cursor and replaces the held list with the first page.
func (f *Fetcher[T]) First(ctx context.Context) ([]T, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil, ErrInFlight
	}
	f.loading = true
	f.offset = 0
	f.items = nil
	f.exhausted = false
	f.mu.Unlock()

	page, err := f.fetch(ctx, 0, f.limit)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		return nil, err
	}

	f.items = append([]T(nil), page...)
	f.offset = len(page)
	f.exhausted = len(page) == 0
	return page, nil
}

// More appends the next page to the held list.
//
// It is a silent no-op while a fetch is in flight (single-flight guard: rapid
// repeated calls issue one network request) and after exhaustion.
func (f *Fetcher[T]) More(ctx context.Context) ([]T, error) {
	f.mu.Lock()
	if f.loading || f.exhausted {
		f.mu.Unlock()
		return nil, nil
	}
	f.loading = true
	offset := f.offset
	f.mu.Unlock()

	page, err := f.fetch(ctx, offset, f.limit)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		return nil, err
	}

	f.items = append(f.items, page...)
	f.offset += len(page)
	if len(page) == 0 {
		f.exhausted = true
	}
	return page, nil
}

// Items returns a snapshot of the held list.
func (f *Fetcher[T]) Items() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.items...)
}

// Len returns the current held list length.
func (f *Fetcher[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Exhausted reports whether a zero-item page has been seen since the last First.
func (f *Fetcher[T]) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exhausted
}

// Patch applies an in-place replacement to the first held item matched, used
// for optimistic updates after a successful remote mutation instead of a
// re-fetch. Reports whether a match was found.
func (f *Fetcher[T]) Patch(match func(T) bool, apply func(T) T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, item := range f.items {
		if match(item) {
			f.items[i] = apply(item)
			return true
		}
	}
	return false
}
