package batchiter

// MapFunc is a generic function that takes a single element and returns
// a single transformed element.
//
// Example:
//
//	func rowID(r Row) int64 {
//	    return r.ID
//	}
type MapFunc[T any, M any] func(T) M

type mapIterator[T, M any] struct {
	Forwarding[T]
	m MapFunc[T, M]
}

// Map returns an iterator that yields m applied to each element of bi.
//
// The mapping is lazy:  m is called every time Current is called, so
// calling Current twice without moving the iterator calls m twice.  m
// should therefore be cheap and free of side effects.  All other methods
// are forwarded to bi.
func Map[T, M any](bi BatchIterator[T], m MapFunc[T, M]) BatchIterator[M] {
	return &mapIterator[T, M]{
		Forwarding: Forward(bi),
		m:          m,
	}
}

func (i *mapIterator[T, M]) Current() M {
	return i.m(i.Delegate().Current())
}
