package batchiter

import (
	"context"
	"sync/atomic"
)

// StepFunc folds one element into the accumulated state and returns the
// new state.  Returning an error aborts the fold.
type StepFunc[S any, T any] func(S, T) (S, error)

// Fold consumes every element of it, threading an accumulator through
// step, and returns a future holding the final accumulator.
//
// Each loaded batch is drained synchronously.  When a batch runs out and
// more batches are available, Fold issues a single LoadNextBatch and
// carries on once it completes, on whichever goroutine completed it.  Fold
// itself never starts a goroutine, and its stack does not grow with the
// number of batches.
//
// The future fails, and no further batch is requested, as soon as step
// returns an error, the iterator reports an error, a panic is recovered
// (as a *PanicError), or ctx is done before a load.  The state
// accumulated so far is discarded in that case.  Cancelling the returned
// future also stops the fold before its next load.  Loads that are
// already in flight are left to finish.
//
// Fold does not close it.
func Fold[T, S any](ctx context.Context, it BatchIterator[T], step StepFunc[S, T], initial S, opts ...Option) *Future[S] {
	o := newOptions(opts...)
	result := NewFuture[S]()

	newFolder(it, step, initial, result, result.IsDone, o.newTracer("Fold")).start(ctx)

	return result
}

type folder[T, S any] struct {
	it     BatchIterator[T]
	step   StepFunc[S, T]
	state  S
	result *Future[S]

	// abandoned reports whether the consumer of the fold has gone away
	abandoned func() bool

	t       Tracer
	batches int
}

func newFolder[T, S any](it BatchIterator[T], step StepFunc[S, T], initial S, result *Future[S],
	abandoned func() bool, t Tracer) *folder[T, S] {

	return &folder[T, S]{
		it:        it,
		step:      step,
		state:     initial,
		result:    result,
		abandoned: abandoned,
		t:         t,
	}
}

const (
	loadPending int32 = iota
	loadInline
	loadAsync
)

func (f *folder[T, S]) start(ctx context.Context) {
	if sz, ok := f.it.(Size); ok {
		f.t.Msg("source holds %d elements", sz.Size())
	}

	f.run(ctx)
}

// run is the drain/load loop.  It returns when the fold has finished or
// when a load is outstanding, in which case the load's completion callback
// calls run again.
func (f *folder[T, S]) run(ctx context.Context) {
	for {
		allLoaded, err := f.drain()
		if err != nil {
			f.fail(err)
			return
		}

		if allLoaded {
			f.t.Msg("done after %d batches", f.batches)
			f.t.End()
			f.result.Complete(f.state)
			return
		}

		if f.abandoned() {
			f.t.Msg("result already completed, not loading further batches")
			f.t.End()
			return
		}
		if err := ctx.Err(); err != nil {
			f.fail(err)
			return
		}

		f.t.Msg("loading batch %d", f.batches+1)
		if !f.load(ctx) {
			return
		}
	}
}

// drain feeds the elements of the loaded batch to step.  It returns the
// value of AllLoaded once the batch is used up.
func (f *folder[T, S]) drain() (allLoaded bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	f.batches++
	n := 0
	for f.it.MoveNext() {
		f.state, err = f.step(f.state, f.it.Current())
		if err != nil {
			return false, err
		}
		n++
	}
	if err := f.it.Error(); err != nil {
		return false, err
	}

	f.t.Msg("batch %d: %d elements", f.batches, n)
	return f.it.AllLoaded(), nil
}

// load requests the next batch.  It returns true if the load completed
// before load returned, in which case the caller carries on draining.
// Otherwise ownership of the fold passes to the load's completion callback.
func (f *folder[T, S]) load(ctx context.Context) bool {
	var (
		handoff atomic.Int32
		syncErr error
	)

	safeLoad(ctx, f.it).OnComplete(func(_ struct{}, err error) {
		syncErr = err
		if handoff.CompareAndSwap(loadPending, loadInline) {
			return
		}

		if err != nil {
			f.fail(err)
			return
		}
		f.run(ctx)
	})

	if handoff.CompareAndSwap(loadPending, loadAsync) {
		return false
	}

	if syncErr != nil {
		f.fail(syncErr)
		return false
	}
	return true
}

func (f *folder[T, S]) fail(err error) {
	f.t.Msg("failed: %v", err)
	f.t.End()
	f.result.Fail(err)
}

// safeLoad calls LoadNextBatch, turning a panic or a missing future into a
// failed future.
func safeLoad[T any](ctx context.Context, it BatchIterator[T]) (fut *Future[struct{}]) {
	defer func() {
		if r := recover(); r != nil {
			fut = Failed[struct{}](&PanicError{Value: r})
		}
	}()

	if fut = it.LoadNextBatch(ctx); fut == nil {
		return Failed[struct{}](ErrNilFuture)
	}
	return fut
}
