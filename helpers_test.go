package batchiter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	batchiter "github.com/jake-scott/go-batchiter"
	"github.com/jake-scott/go-batchiter/iter/channel"
)

var errBoom = errors.New("boom")

func sum(acc, x int) (int, error) {
	return acc + x, nil
}

// countingIter counts the calls made to its delegate and can be told to
// fail on a given call to MoveNext.
type countingIter[T any] struct {
	batchiter.Forwarding[T]

	moveNexts int
	loads     int

	failAt int // MoveNext call that fails, 0 for never
	err    error
}

func counting[T any](bi batchiter.BatchIterator[T]) *countingIter[T] {
	return &countingIter[T]{Forwarding: batchiter.Forward(bi)}
}

func (c *countingIter[T]) MoveNext() bool {
	c.moveNexts++
	if c.err != nil {
		return false
	}
	if c.failAt > 0 && c.moveNexts == c.failAt {
		c.err = errBoom
		return false
	}

	return c.Delegate().MoveNext()
}

func (c *countingIter[T]) Current() T {
	return c.Delegate().Current()
}

func (c *countingIter[T]) LoadNextBatch(ctx context.Context) *batchiter.Future[struct{}] {
	c.loads++
	return c.Delegate().LoadNextBatch(ctx)
}

func (c *countingIter[T]) Error() error {
	if c.err != nil {
		return c.err
	}
	return c.Delegate().Error()
}

// chanSource returns a channel iterator fed with batches by a background
// goroutine, which exits once all batches have been sent.
func chanSource[T any](batches ...[]T) *channel.Iterator[T] {
	ch := make(chan []T)
	go func() {
		for _, b := range batches {
			ch <- b
		}
		close(ch)
	}()

	return channel.New[T](ch)
}

func wait[T any](t *testing.T, f *batchiter.Future[T]) (T, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	v, err := f.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) && !f.IsDone() {
		t.Fatal("timed out waiting for future")
	}
	return v, err
}

// drain reads every element of bi by hand, loading batches as needed.
func drain[T any](t *testing.T, bi batchiter.BatchIterator[T]) []T {
	t.Helper()

	out := []T{}
	for {
		for bi.MoveNext() {
			out = append(out, bi.Current())
		}
		if bi.Error() != nil || bi.AllLoaded() {
			return out
		}
		if _, err := wait(t, bi.LoadNextBatch(context.Background())); err != nil {
			return out
		}
	}
}

func chanSourceFrom[T any](ch chan []T) batchiter.BatchIterator[T] {
	return channel.New[T](ch)
}
