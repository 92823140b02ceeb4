package batchiter

import (
	"context"
	"strings"
)

// Collector describes a mutable reduction.  Supplier creates the state,
// Accumulator adds one element to the state in place and Finisher turns
// the final state into the result.
type Collector[T any, A any, R any] struct {
	Supplier    func() A
	Accumulator func(A, T)
	Finisher    func(A) R
}

// Collect uses c to consume all elements of it.
//
// Collect does not close it, even once the end has been reached.
func Collect[T, A, R any](ctx context.Context, it BatchIterator[T], c Collector[T, A, R], opts ...Option) *Future[R] {
	return CollectInto(ctx, it, c.Supplier(), c, NewFuture[R](), opts...)
}

// CollectInto consumes all elements of it into state using c's
// Accumulator, then completes result with c's Finisher applied to state.
// It returns result.
//
// Because the caller owns state and result, it can look at the partially
// accumulated state while the collection is in progress, and it can stop
// the collection by completing or cancelling result;  no further batches
// are loaded after that.  Inspecting state is only safe from the goroutine
// currently driving the collection, e.g. from within a decorator.
//
// CollectInto does not close it.
func CollectInto[T, A, R any](ctx context.Context, it BatchIterator[T], state A, c Collector[T, A, R],
	result *Future[R], opts ...Option) *Future[R] {

	o := newOptions(opts...)

	step := func(s A, t T) (A, error) {
		c.Accumulator(s, t)
		return s, nil
	}

	folded := NewFuture[A]()
	folded.OnComplete(func(s A, err error) {
		if err != nil {
			result.Fail(err)
			return
		}

		r, err := finish(c.Finisher, s)
		if err != nil {
			result.Fail(err)
			return
		}
		result.Complete(r)
	})

	newFolder(it, step, state, folded, result.IsDone, o.newTracer("Collect")).start(ctx)

	return result
}

func finish[A, R any](f func(A) R, state A) (r R, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v}
		}
	}()

	return f(state), nil
}

// ToSlice returns a Collector that appends the elements to a slice, in
// iteration order.
func ToSlice[T any]() Collector[T, *[]T, []T] {
	return Collector[T, *[]T, []T]{
		Supplier: func() *[]T {
			s := []T{}
			return &s
		},
		Accumulator: func(s *[]T, t T) {
			*s = append(*s, t)
		},
		Finisher: func(s *[]T) []T {
			return *s
		},
	}
}

// Counting returns a Collector that counts the elements.
func Counting[T any]() Collector[T, *int, int] {
	return Collector[T, *int, int]{
		Supplier: func() *int {
			return new(int)
		},
		Accumulator: func(n *int, _ T) {
			*n++
		},
		Finisher: func(n *int) int {
			return *n
		},
	}
}

// Number is the set of types Summing can add up.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Summing returns a Collector that adds the elements together.
func Summing[T Number]() Collector[T, *T, T] {
	return Collector[T, *T, T]{
		Supplier: func() *T {
			return new(T)
		},
		Accumulator: func(sum *T, t T) {
			*sum += t
		},
		Finisher: func(sum *T) T {
			return *sum
		},
	}
}

// Joining returns a Collector that concatenates strings, separated by sep.
func Joining(sep string) Collector[string, *[]string, string] {
	return Collector[string, *[]string, string]{
		Supplier: func() *[]string {
			return &[]string{}
		},
		Accumulator: func(s *[]string, t string) {
			*s = append(*s, t)
		},
		Finisher: func(s *[]string) string {
			return strings.Join(*s, sep)
		},
	}
}

// GroupingBy returns a Collector that groups the elements by the key
// returned by key.  Within each group elements keep their iteration order.
func GroupingBy[T any, K comparable](key func(T) K) Collector[T, map[K][]T, map[K][]T] {
	return Collector[T, map[K][]T, map[K][]T]{
		Supplier: func() map[K][]T {
			return map[K][]T{}
		},
		Accumulator: func(m map[K][]T, t T) {
			k := key(t)
			m[k] = append(m[k], t)
		},
		Finisher: func(m map[K][]T) map[K][]T {
			return m
		},
	}
}
