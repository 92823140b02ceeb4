package channel

import (
	"context"
	"testing"
	"time"

	batchiter "github.com/jake-scott/go-batchiter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

var _channelInputTest1 [][]string = [][]string{
	{"This is some test input with", "multipe lines"},
	{},
	{"in it and multiple words", "per line."},
}

func load(t *testing.T, ctx context.Context, iter batchiter.BatchIterator[string]) error {
	t.Helper()

	wctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := iter.LoadNextBatch(ctx).Wait(wctx)
	return err
}

func TestChannelIter(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	ch := make(chan []string)
	go func() {
		for _, batch := range _channelInputTest1 {
			ch <- batch
		}

		close(ch)
	}()

	iter := New[string](ch)
	gotLines := []string{}
	loads := 0

	// before a MoveNext() call it should return the zero value..
	assert.Equal("", iter.Current())

	for {
		for iter.MoveNext() {
			gotLines = append(gotLines, iter.Current())
		}
		if iter.AllLoaded() {
			break
		}

		assert.NoError(load(t, ctx, iter))
		loads++
	}

	want := []string{}
	for _, batch := range _channelInputTest1 {
		want = append(want, batch...)
	}

	assert.Equal(want, gotLines)
	assert.Equal(len(_channelInputTest1)+1, loads)
	assert.Nil(iter.Error())

	// loading past the end fails the iterator
	assert.ErrorIs(load(t, ctx, iter), batchiter.ErrAllLoaded)
	assert.ErrorIs(iter.Error(), batchiter.ErrAllLoaded)

	assert.NoError(goleak.Find())
}

func TestChannelIteratorTimeout(t *testing.T) {
	assert := assert.New(t)

	ch := make(chan []string)
	go func() {
		ch <- _channelInputTest1[0]

		// Don't close ch, to cause a timeout
	}()

	iter := New[string](ch)
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*20)
	defer cancel()

	assert.NoError(load(t, ctx, iter))
	gotLines := []string{}
	for iter.MoveNext() {
		gotLines = append(gotLines, iter.Current())
	}
	assert.Equal(_channelInputTest1[0], gotLines)

	// the context should time out on the next load
	err := load(t, ctx, iter)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.ErrorIs(iter.Error(), context.DeadlineExceeded)
	assert.False(iter.MoveNext())

	// and the iterator stays failed
	assert.ErrorIs(load(t, context.Background(), iter), context.DeadlineExceeded)

	assert.NoError(goleak.Find())
}

func TestChannelIterLoadPending(t *testing.T) {
	assert := assert.New(t)

	ch := make(chan []string)
	iter := New[string](ch)

	first := iter.LoadNextBatch(context.Background())
	assert.False(first.IsDone())

	second := iter.LoadNextBatch(context.Background())
	assert.True(second.IsDone())
	_, err := second.Result()
	assert.ErrorIs(err, batchiter.ErrLoadPending)

	close(ch)
	_, err = first.Wait(context.Background())
	assert.NoError(err)
	assert.True(iter.AllLoaded())

	assert.NoError(goleak.Find())
}

func TestChannelIterClose(t *testing.T) {
	assert := assert.New(t)

	ch := make(chan []string, 1)
	ch <- []string{"a"}
	iter := New[string](ch)

	assert.NoError(iter.Close())
	assert.NoError(iter.Close())
	assert.False(iter.MoveNext())
	assert.ErrorIs(load(t, context.Background(), iter), batchiter.ErrClosed)
}

func TestChannelIterCloseWhileLoading(t *testing.T) {
	assert := assert.New(t)

	ch := make(chan []string, 1)
	iter := New[string](ch)

	f := iter.LoadNextBatch(context.Background())
	assert.False(f.IsDone())

	assert.NoError(iter.Close())

	// Close returns only once the load has given up
	assert.True(f.IsDone())
	_, err := f.Result()
	assert.ErrorIs(err, batchiter.ErrClosed)

	// a batch sent after Close is left in the channel
	ch <- []string{"late"}
	assert.False(iter.MoveNext())
	assert.False(iter.AllLoaded())
	assert.NoError(iter.Error())
	assert.Len(ch, 1)

	assert.NoError(goleak.Find())
}

func TestChannelIterClosedOnCancel(t *testing.T) {
	assert := assert.New(t)

	// a sender that gives up on ctx closes the channel as it leaves;
	// that must not be mistaken for the end of the data
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := make(chan []string)
	close(ch)

	iter := New[string](ch)
	err := load(t, ctx, iter)
	assert.ErrorIs(err, context.Canceled)
	assert.ErrorIs(iter.Error(), context.Canceled)
	assert.False(iter.AllLoaded())

	assert.NoError(goleak.Find())
}
