package batchiter

import (
	"errors"
	"fmt"
)

var (
	// ErrAllLoaded is returned by LoadNextBatch when the iterator has no
	// more batches.
	ErrAllLoaded = errors.New("batchiter: all batches already loaded")

	// ErrLoadPending is returned by LoadNextBatch when a previous load has
	// not completed yet.
	ErrLoadPending = errors.New("batchiter: batch load already in progress")

	// ErrClosed is returned when an iterator is used after Close.
	ErrClosed = errors.New("batchiter: iterator closed")

	// ErrCancelled is the error of a future that was cancelled by its
	// owner.
	ErrCancelled = errors.New("batchiter: cancelled")

	// ErrNoElements is returned by Reduce when the iterator is empty.
	ErrNoElements = errors.New("batchiter: no elements to reduce")

	// ErrNilFuture is the error of a fold whose iterator returned a nil
	// future from LoadNextBatch.
	ErrNilFuture = errors.New("batchiter: LoadNextBatch returned no future")

	// ErrNotDone is returned by Future.Result while the future is pending.
	ErrNotDone = errors.New("batchiter: future not complete")
)

// PanicError is returned by Fold and Collect when the iterator or one of
// the user supplied functions panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("batchiter: panic: %v", e.Value)
}

// Unwrap returns the panic value if it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}
