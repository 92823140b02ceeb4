package batchiter

// FilterFunc is a generic function type that takes a single element and
// returns true if it is to be included or false if the element is to be
// excluded.
//
// Example:
//
//	func isEven(i int) bool {
//	    return i%2 == 0
//	}
type FilterFunc[T any] func(T) bool

type filterIterator[T any] struct {
	Forwarding[T]
	f FilterFunc[T]
}

// Filter returns an iterator that skips the elements of bi for which f
// returns false.  f is called once per element of bi, from MoveNext.
//
// When the loaded batch of bi runs out while skipping, MoveNext returns
// false like any other batch boundary and the caller loads the next batch
// as usual.
func Filter[T any](bi BatchIterator[T], f FilterFunc[T]) BatchIterator[T] {
	return &filterIterator[T]{
		Forwarding: Forward(bi),
		f:          f,
	}
}

func (i *filterIterator[T]) MoveNext() bool {
	d := i.Delegate()
	for d.MoveNext() {
		if i.f(d.Current()) {
			return true
		}
	}

	return false
}

func (i *filterIterator[T]) Current() T {
	return i.Delegate().Current()
}
