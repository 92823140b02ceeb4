package batchiter

import "fmt"

type partitionIterator[T, A any] struct {
	Forwarding[T]

	size        int
	supplier    func() A
	accumulator func(A, T)
	limiter     func(A) bool

	state   A   // partition being filled
	count   int // elements accumulated into state
	current A
}

// Partition groups the elements of bi into partitions of at most size
// elements.
//
// supplier creates the state of each partition and accumulator adds an
// element to it.  limiter, if not nil, is called after every addition and
// closes the partition early when it returns true;  it can be used to
// bound partitions by weight rather than count.
//
// A partition is emitted when it holds size elements, when limiter
// returns true, or when bi is exhausted and the partition is not empty.
// The trailing partition is flushed on the MoveNext call that sees bi's
// MoveNext return false while bi.AllLoaded() is true.
//
// If bi's loaded batch runs out before the partition is complete, MoveNext
// returns false and the open partition is kept as it is until the caller
// has loaded the next batch.
//
// Example:
//
//	input: [1, 2, 3, 4, 5]
//
//	Partition(input, 2, newList, appendList, nil) -> [[1, 2], [3, 4], [5]]
//
// Partition panics if size is less than 1.
func Partition[T, A any](bi BatchIterator[T], size int, supplier func() A,
	accumulator func(A, T), limiter func(A) bool) BatchIterator[A] {

	if size < 1 {
		panic(fmt.Sprintf("batchiter: partition size is too low: %d", size))
	}

	return &partitionIterator[T, A]{
		Forwarding:  Forward(bi),
		size:        size,
		supplier:    supplier,
		accumulator: accumulator,
		limiter:     limiter,
		state:       supplier(),
	}
}

func (i *partitionIterator[T, A]) MoveNext() bool {
	d := i.Delegate()

	limitReached := false
	for i.count < i.size && !limitReached && d.MoveNext() {
		i.accumulator(i.state, d.Current())
		if i.limiter != nil {
			limitReached = i.limiter(i.state)
		}
		i.count++
	}

	// never flush a partition built from a failed source
	if d.Error() != nil {
		var zero A
		i.current = zero
		return false
	}

	if i.count == i.size || limitReached || (i.count > 0 && d.AllLoaded()) {
		i.current = i.state
		i.state = i.supplier()
		i.count = 0
		return true
	}

	var zero A
	i.current = zero
	return false
}

func (i *partitionIterator[T, A]) Current() A {
	return i.current
}

// Chunk is Partition with a slice as the partition state:  it yields
// consecutive slices of up to size elements of bi.
func Chunk[T any](bi BatchIterator[T], size int) BatchIterator[[]T] {
	supplier := func() *[]T {
		s := make([]T, 0, size)
		return &s
	}
	accumulator := func(s *[]T, t T) {
		*s = append(*s, t)
	}

	p := Partition(bi, size, supplier, accumulator, nil)
	return Map(p, func(s *[]T) []T {
		if s == nil {
			return nil
		}
		return *s
	})
}
