package batchiter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestFutureComplete(t *testing.T) {
	assert := assert.New(t)

	f := NewFuture[int]()
	assert.False(f.IsDone())

	_, err := f.Result()
	assert.ErrorIs(err, ErrNotDone)

	assert.True(f.Complete(5))
	assert.False(f.Complete(6))
	assert.False(f.Fail(errors.New("too late")))
	assert.False(f.Cancel())
	assert.True(f.IsDone())

	v, err := f.Result()
	assert.NoError(err)
	assert.Equal(5, v)

	select {
	case <-f.Done():
	default:
		assert.Fail("done channel not closed")
	}
}

func TestFutureFail(t *testing.T) {
	assert := assert.New(t)

	errFail := errors.New("failed")
	f := Failed[string](errFail)

	v, err := f.Wait(context.Background())
	assert.ErrorIs(err, errFail)
	assert.Equal("", v)

	c := NewFuture[string]()
	assert.True(c.Cancel())
	_, err = c.Result()
	assert.ErrorIs(err, ErrCancelled)
}

func TestFutureOnComplete(t *testing.T) {
	assert := assert.New(t)

	// registered before completion:  runs on the completing goroutine
	f := NewFuture[int]()
	got := []int{}
	f.OnComplete(func(v int, err error) {
		got = append(got, v)
	})
	f.OnComplete(func(v int, err error) {
		got = append(got, v*10)
	})
	assert.Empty(got)

	f.Complete(3)
	assert.Equal([]int{3, 30}, got)

	// registered after completion:  runs immediately
	var gotErr error
	Failed[int](ErrClosed).OnComplete(func(_ int, err error) {
		gotErr = err
	})
	assert.ErrorIs(gotErr, ErrClosed)
}

func TestFutureWait(t *testing.T) {
	assert := assert.New(t)

	f := NewFuture[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.False(f.IsDone())

	go func() {
		time.Sleep(5 * time.Millisecond)
		f.Complete(7)
	}()

	v, err := f.Wait(context.Background())
	assert.NoError(err)
	assert.Equal(7, v)

	assert.NoError(goleak.Find())
}

func TestFutureConcurrentCompletion(t *testing.T) {
	assert := assert.New(t)

	f := NewFuture[int]()

	var (
		mu    sync.Mutex
		calls int
	)
	for i := 0; i < 10; i++ {
		f.OnComplete(func(int, error) {
			mu.Lock()
			calls++
			mu.Unlock()
		})
	}

	wg := sync.WaitGroup{}
	wins := make(chan int, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Complete(i) {
				wins <- i
			}
		}()
	}
	wg.Wait()
	close(wins)

	winners := []int{}
	for w := range wins {
		winners = append(winners, w)
	}
	assert.Len(winners, 1)

	v, err := f.Result()
	assert.NoError(err)
	assert.Equal(winners[0], v)
	assert.Equal(10, calls)

	assert.NoError(goleak.Find())
}

func TestPanicError(t *testing.T) {
	assert := assert.New(t)

	errInner := errors.New("inner")
	pe := &PanicError{Value: errInner}
	assert.ErrorIs(pe, errInner)
	assert.Equal("batchiter: panic: inner", pe.Error())

	pe = &PanicError{Value: 42}
	assert.Nil(pe.Unwrap())
	assert.Equal("batchiter: panic: 42", pe.Error())
}
