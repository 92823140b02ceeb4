// Package channel implements a batch iterator that reads batches from
// the supplied channel, as they might arrive from a remote node.
//
// Nothing is loaded when the iterator is created.  Each LoadNextBatch
// receives one batch on a separate goroutine;  the channel being closed
// means that all batches have been loaded.
package channel

import (
	"context"

	batchiter "github.com/jake-scott/go-batchiter"
)

// Iterator traverses the batches of type []T received from a channel,
// until the channel is closed.
type Iterator[T any] struct {
	ch        <-chan []T
	batch     []T
	pos       int
	allLoaded bool
	loading   *batchiter.Future[struct{}]
	stop      chan struct{} // closed by Close
	closed    bool
	err       error
}

var _ batchiter.BatchIterator[int] = (*Iterator[int])(nil)

// New returns an iterator that reads batches from ch.
//
// Iterator does not support the Size interface.
func New[T any](ch <-chan []T) *Iterator[T] {
	return &Iterator[T]{
		ch:   ch,
		stop: make(chan struct{}),
	}
}

// MoveNext advances to the next element of the last received batch.
func (i *Iterator[T]) MoveNext() bool {
	if i.err != nil || i.closed || i.pos >= len(i.batch) {
		return false
	}

	i.pos++
	return true
}

// Current returns the element the iterator refers to, or the zero value
// if MoveNext has not returned true.
func (i *Iterator[T]) Current() T {
	if i.pos == 0 || i.pos > len(i.batch) {
		var ret T
		return ret
	}

	return i.batch[i.pos-1]
}

// AllLoaded returns true once a load has found the channel closed.
func (i *Iterator[T]) AllLoaded() bool {
	return i.allLoaded
}

// LoadNextBatch receives the next batch from the channel in the
// background.  The future completes when a batch has been received or the
// channel has been closed, and fails if ctx is done first;  in that case
// the iterator is failed too.  A load that is still waiting when the
// iterator is closed fails with ErrClosed.
func (i *Iterator[T]) LoadNextBatch(ctx context.Context) *batchiter.Future[struct{}] {
	switch {
	case i.err != nil:
		return batchiter.Failed[struct{}](i.err)
	case i.closed:
		return batchiter.Failed[struct{}](batchiter.ErrClosed)
	case i.loading != nil && !i.loading.IsDone():
		return batchiter.Failed[struct{}](batchiter.ErrLoadPending)
	case i.allLoaded:
		i.err = batchiter.ErrAllLoaded
		return batchiter.Failed[struct{}](i.err)
	}

	f := batchiter.NewFuture[struct{}]()
	i.loading = f
	i.batch = nil
	i.pos = 0

	go func() {
		select {
		case batch, ok := <-i.ch:
			switch {
			case i.stopped():
				f.Fail(batchiter.ErrClosed)
				return
			case !ok && ctx.Err() != nil:
				// the sender gave up because of ctx, this is not the end
				i.err = ctx.Err()
				f.Fail(i.err)
				return
			case ok:
				i.batch = batch
			default:
				i.allLoaded = true
			}
			f.Complete(struct{}{})

		case <-ctx.Done():
			i.err = ctx.Err()
			f.Fail(i.err)

		case <-i.stop:
			f.Fail(batchiter.ErrClosed)
		}
	}()

	return f
}

// Error returns the context's error if a load was cancelled, otherwise nil.
func (i *Iterator[T]) Error() error {
	return i.err
}

func (i *Iterator[T]) stopped() bool {
	select {
	case <-i.stop:
		return true
	default:
		return false
	}
}

// Close stops the iterator from being used.  A load in progress is
// abandoned and Close waits for its goroutine to finish.  It does not drain
// or close the channel;  that remains the job of the sender.
func (i *Iterator[T]) Close() error {
	if i.closed {
		return nil
	}

	close(i.stop)
	if i.loading != nil {
		<-i.loading.Done()
	}

	i.closed = true
	i.batch = nil
	i.pos = 0
	return nil
}
