package batchiter

import "context"

// Forwarding owns a single delegate iterator and forwards every method of
// BatchIterator except Current to it.  Decorators embed Forwarding, add a
// Current method and override whichever other methods they need.
//
// Example:
//
//	type upper struct {
//	    batchiter.Forwarding[string]
//	}
//
//	func (u upper) Current() string {
//	    return strings.ToUpper(u.Delegate().Current())
//	}
type Forwarding[T any] struct {
	delegate BatchIterator[T]
}

// Forward returns a Forwarding that takes ownership of delegate.
func Forward[T any](delegate BatchIterator[T]) Forwarding[T] {
	return Forwarding[T]{delegate: delegate}
}

// Delegate returns the wrapped iterator.
func (f Forwarding[T]) Delegate() BatchIterator[T] {
	return f.delegate
}

func (f Forwarding[T]) MoveNext() bool {
	return f.delegate.MoveNext()
}

func (f Forwarding[T]) AllLoaded() bool {
	return f.delegate.AllLoaded()
}

func (f Forwarding[T]) LoadNextBatch(ctx context.Context) *Future[struct{}] {
	return f.delegate.LoadNextBatch(ctx)
}

func (f Forwarding[T]) Error() error {
	return f.delegate.Error()
}

func (f Forwarding[T]) Close() error {
	return f.delegate.Close()
}
