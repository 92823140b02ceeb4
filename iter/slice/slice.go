// Package slice implements an in-memory batch iterator over elements
// that have already been split into batches.
//
// The first batch is loaded when the iterator is created and every further
// load completes immediately.  Iterator supports the Size interface.
package slice

import (
	"context"

	"github.com/eapache/queue"

	batchiter "github.com/jake-scott/go-batchiter"
)

// Iterator traverses batches of elements of type T.
type Iterator[T any] struct {
	pending *queue.Queue // batches not loaded yet, each a []T
	batch   []T
	pos     int
	size    uint
	closed  bool
	err     error
}

var _ batchiter.BatchIterator[int] = (*Iterator[int])(nil)

// New returns an iterator over batches.  The first batch is loaded
// straight away;  the others are loaded one by one by LoadNextBatch.
// Empty batches are allowed.
func New[T any](batches ...[]T) *Iterator[T] {
	i := &Iterator[T]{
		pending: queue.New(),
	}

	for n, b := range batches {
		i.size += uint(len(b))
		if n == 0 {
			i.batch = b
			continue
		}
		i.pending.Add(b)
	}

	return i
}

// Split returns an iterator over items, divided into batches of size
// elements (the last batch may be smaller).  A size below 1 yields a
// single batch.
func Split[T any](items []T, size int) *Iterator[T] {
	if size < 1 || len(items) <= size {
		return New(items)
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for len(items) > size {
		batches = append(batches, items[:size:size])
		items = items[size:]
	}
	batches = append(batches, items)

	return New(batches...)
}

// Size returns the total number of elements across all batches, implementing
// the Size interface.
func (i *Iterator[T]) Size() uint {
	return i.size
}

// MoveNext advances to the next element of the loaded batch.
func (i *Iterator[T]) MoveNext() bool {
	if i.err != nil || i.closed || i.pos >= len(i.batch) {
		return false
	}

	i.pos++
	return true
}

// Current returns the element of the loaded batch that the iterator refers
// to, or the zero value if MoveNext has not returned true.
func (i *Iterator[T]) Current() T {
	if i.pos == 0 || i.pos > len(i.batch) {
		var ret T
		return ret
	}

	return i.batch[i.pos-1]
}

// AllLoaded returns true when there are no batches left to load.
func (i *Iterator[T]) AllLoaded() bool {
	return i.pending.Length() == 0
}

// LoadNextBatch replaces the loaded batch with the next one.  The returned
// future is always complete.
//
// Loading past the last batch, after Close or with a done context fails
// the iterator.
func (i *Iterator[T]) LoadNextBatch(ctx context.Context) *batchiter.Future[struct{}] {
	switch {
	case i.err != nil:
		return batchiter.Failed[struct{}](i.err)
	case i.closed:
		return batchiter.Failed[struct{}](batchiter.ErrClosed)
	case i.pending.Length() == 0:
		i.err = batchiter.ErrAllLoaded
		return batchiter.Failed[struct{}](i.err)
	}

	if err := ctx.Err(); err != nil {
		i.err = err
		return batchiter.Failed[struct{}](err)
	}

	i.batch = i.pending.Remove().([]T)
	i.pos = 0
	return batchiter.Completed(struct{}{})
}

// Error returns the reason the iterator failed, or nil.
func (i *Iterator[T]) Error() error {
	return i.err
}

// Close drops the remaining batches.
func (i *Iterator[T]) Close() error {
	if i.closed {
		return nil
	}

	i.closed = true
	i.batch = nil
	i.pos = 0
	for i.pending.Length() > 0 {
		i.pending.Remove()
	}
	return nil
}
