// Package batchiter provides a pull based iterator over data that is
// loaded in batches, possibly asynchronously, together with decorators
// (Map, Filter, Partition) and terminal operations (Fold, Collect) that
// consume such iterators without materializing the whole data set.
//
// A BatchIterator moves between the following states:
//
//	NEEDS_LOAD  MoveNext returned false, AllLoaded is false.  The consumer
//	            must call LoadNextBatch and wait for the returned future.
//	POSITIONED  MoveNext returned true;  Current is valid.
//	EXHAUSTED   MoveNext returned false and AllLoaded is true.
//	FAILED      Error returns non-nil.  The iterator must not be used again.
//
// Exactly one goroutine may drive an iterator at any time.  None of the
// types in this package lock internally;  Future is the only exception.
package batchiter

import (
	"context"
)

// BatchIterator is a cursor over a sequence of elements that are made
// available in batches.
type BatchIterator[T any] interface {
	// MoveNext moves to the next element of the loaded batch.  It returns
	// false when the batch is used up or when the iterator has failed, in
	// which case Error returns non-nil.
	MoveNext() bool

	// Current returns the element the iterator is positioned on, or the
	// zero value of T if MoveNext has not returned true.
	Current() T

	// AllLoaded returns true once there are no further batches to load.
	AllLoaded() bool

	// LoadNextBatch fetches the next batch.  It may only be called after
	// MoveNext returned false and AllLoaded returned false, and never while
	// a previous load is outstanding.  The returned future completes once
	// the iterator is ready for MoveNext again.
	LoadNextBatch(ctx context.Context) *Future[struct{}]

	// Error returns the reason the iterator failed, or nil.
	Error() error

	// Close releases the resources held by the iterator.  It is safe to
	// call more than once.  None of the functions in this package close
	// the iterators passed to them.
	Close() error
}

// Size is an interface that can be implemented by an iterator that
// knows the total number of elements when it is created.
type Size interface {
	Size() uint
}
