package batchiter

import "context"

// ReduceFunc is a generic function that takes two arguments and reduces them
// to a single value.
type ReduceFunc[T any] func(T, T) (T, error)

type reduction[T any] struct {
	value T
	seen  bool
}

// Reduce combines the elements of it pairwise with f, starting from the
// first element, and returns a future holding the result.  It fails with
// ErrNoElements if it yields nothing.  Apart from that it behaves like Fold.
func Reduce[T any](ctx context.Context, it BatchIterator[T], f ReduceFunc[T], opts ...Option) *Future[T] {
	step := func(r reduction[T], t T) (reduction[T], error) {
		if !r.seen {
			return reduction[T]{value: t, seen: true}, nil
		}

		v, err := f(r.value, t)
		return reduction[T]{value: v, seen: true}, err
	}

	o := newOptions(opts...)
	result := NewFuture[T]()

	folded := NewFuture[reduction[T]]()
	folded.OnComplete(func(r reduction[T], err error) {
		switch {
		case err != nil:
			result.Fail(err)
		case !r.seen:
			result.Fail(ErrNoElements)
		default:
			result.Complete(r.value)
		}
	})

	newFolder(it, step, reduction[T]{}, folded, result.IsDone, o.newTracer("Reduce")).start(ctx)

	return result
}
