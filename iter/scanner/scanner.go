// Package scanner implements a batch iterator over a stream of tokens.
//
// The package makes use of the standard library bufio.Scanner to buffer and
// split data read from an io.Reader.  Scanner has a set of standard splitters
// for words, lines and runes and supports custom split functions as well.
// Tokens are read in batches of a fixed size, each batch on a separate
// goroutine, so that slow readers do not block the consumer.
package scanner

import (
	"context"
	"fmt"

	batchiter "github.com/jake-scott/go-batchiter"
)

// DefaultBatchSize is used when New is called with a batch size below 1.
const DefaultBatchSize = 512

// Iterator wraps a bufio.Scanner to traverse over a stream of tokens
// such as words or lines read from an io.Reader.
//
// Iterator does not support the Size interface.
type Iterator struct {
	scanner   Scanner
	batchSize int
	batch     []string
	pos       int
	allLoaded bool
	loading   *batchiter.Future[struct{}]
	stop      chan struct{} // closed by Close
	closed    bool
	err       error
}

var _ batchiter.BatchIterator[string] = (*Iterator)(nil)

// Scanner is an interface defining a subset of the methods exposed by
// bufio.Scanner, and is here primarily to assist with unit testing.
type Scanner interface {
	Scan() bool
	Text() string
	Err() error
}

// ErrTooManyTokens is returned in response to a panic in the
// scanner.Scan() method, the result of too many tokens being returned without
// the scanner advancing.
type ErrTooManyTokens struct {
	panicMessage string
	err          error
}

func (e ErrTooManyTokens) Error() string {
	if e.err == nil {
		return "too many tokens: " + e.panicMessage
	}

	return fmt.Sprintf("too many tokens: %s", e.err)
}

func (e ErrTooManyTokens) Unwrap() error {
	return e.err
}

// New returns an iterator that reads up to batchSize tokens from scanner
// per batch.  Nothing is read until the first LoadNextBatch.
func New(scanner Scanner, batchSize int) *Iterator {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	return &Iterator{
		scanner:   scanner,
		batchSize: batchSize,
		stop:      make(chan struct{}),
	}
}

// MoveNext advances to the next token of the loaded batch.
func (i *Iterator) MoveNext() bool {
	if i.err != nil || i.closed || i.pos >= len(i.batch) {
		return false
	}

	i.pos++
	return true
}

// Current returns the token the iterator refers to, or the empty string
// if MoveNext has not returned true.
func (i *Iterator) Current() string {
	if i.pos == 0 || i.pos > len(i.batch) {
		return ""
	}

	return i.batch[i.pos-1]
}

// AllLoaded returns true once the scanner has reached the end of its input.
func (i *Iterator) AllLoaded() bool {
	return i.allLoaded
}

// LoadNextBatch scans the next batch of tokens in the background.  The
// future fails if the scanner reports an error or panics, or if ctx is
// done between two tokens;  the iterator is failed in each of these cases.
// A load that is still scanning when the iterator is closed fails with
// ErrClosed once the current token has been read.
func (i *Iterator) LoadNextBatch(ctx context.Context) *batchiter.Future[struct{}] {
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
	i.pos = 0

	go func() {
		batch, eof, err := i.scan(ctx)
		if err == batchiter.ErrClosed {
			f.Fail(err)
			return
		}

		i.batch = batch
		i.allLoaded = eof
		if err != nil {
			i.err = err
			f.Fail(err)
			return
		}

		f.Complete(struct{}{})
	}()

	return f
}

func (i *Iterator) scan(ctx context.Context) (batch []string, eof bool, err error) {
	defer func() {
		switch perr := recover().(type) {
		default:
			err = ErrTooManyTokens{panicMessage: fmt.Sprintf("%v", perr)}
		case error:
			err = ErrTooManyTokens{err: perr}
		case nil:
		}
	}()

	batch = make([]string, 0, i.batchSize)
	for len(batch) < i.batchSize {
		select {
		case <-i.stop:
			return nil, false, batchiter.ErrClosed
		default:
		}
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		if !i.scanner.Scan() {
			if err := i.scanner.Err(); err != nil {
				return nil, false, err
			}
			return batch, true, nil
		}

		batch = append(batch, i.scanner.Text())
	}

	return batch, false, nil
}

// Error returns the panic message from the scanner if one occured during
// a load, the cancellation reason if the context was cancelled, or the
// scanner's own error.
func (i *Iterator) Error() error {
	return i.err
}

// Close stops the iterator from being used.  A load in progress is
// stopped before its next token and Close waits for it.  The underlying
// reader is not closed.
func (i *Iterator) Close() error {
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
