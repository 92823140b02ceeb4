package batchiter

import (
	"context"
	"sync"
)

// Future is the result of an asynchronous operation.  It is completed
// exactly once, either with a value or with an error.
//
// Callbacks registered with OnComplete run on the goroutine that completes
// the future, or immediately on the caller's goroutine if the future is
// already complete.  They must not assume anything about which goroutine
// that is.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	completed bool
	value     T
	err       error
	callbacks []func(T, error)
}

// NewFuture returns a pending future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

// Completed returns a future that has already completed with v.
func Completed[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Complete(v)
	return f
}

// Failed returns a future that has already failed with err.
func Failed[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Fail(err)
	return f
}

// Complete completes the future with v.  It returns false if the future
// was already complete, in which case v is discarded.
func (f *Future[T]) Complete(v T) bool {
	return f.settle(v, nil)
}

// Fail completes the future with err.  It returns false if the future was
// already complete.
func (f *Future[T]) Fail(err error) bool {
	var zero T
	return f.settle(zero, err)
}

// Cancel fails the future with ErrCancelled.  Operations producing the
// future stop before their next batch load once they notice.
func (f *Future[T]) Cancel() bool {
	return f.Fail(ErrCancelled)
}

func (f *Future[T]) settle(v T, err error) bool {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return false
	}
	f.completed = true
	f.value = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}
	return true
}

// Done returns a channel that is closed when the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the future has completed.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome of a completed future without blocking.  If
// the future is still pending it returns ErrNotDone.
func (f *Future[T]) Result() (T, error) {
	if !f.IsDone() {
		var zero T
		return zero, ErrNotDone
	}

	return f.value, f.err
}

// Wait blocks until the future completes or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete registers cb to be called with the outcome of the future.
func (f *Future[T]) OnComplete(cb func(T, error)) {
	f.mu.Lock()
	if !f.completed {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	cb(f.value, f.err)
}
