package batchiter

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// CollectAll collects each of its with its own instance of c's state, for
// example one iterator per shard of a table.  The collections run
// concurrently but every iterator is still driven by one goroutine at a
// time.  CollectAll blocks until all of them are complete and returns the
// results in the order of its.
//
// The first error cancels the context passed to the other collections, so
// they stop before loading their next batch, and is returned once every
// collection has finished.  CollectAll returns early only if ctx itself is
// done.  It does not close the iterators.
//
// When tracing is enabled each collection is traced as a sub-operation of
// CollectAll.
func CollectAll[T, A, R any](ctx context.Context, its []BatchIterator[T], c Collector[T, A, R], opts ...Option) ([]R, error) {
	o := newOptions(opts...)
	t := o.newTracer("CollectAll")
	defer t.End()

	t.Msg("collecting %d iterators", len(its))

	g, gctx := errgroup.WithContext(ctx)
	results := make([]R, len(its))

	for i, it := range its {
		sub := t.SubTracer("iterator %d", i)
		shardOpts := append(slices.Clone(opts), withParentTracer(sub))

		g.Go(func() error {
			r, err := Collect(gctx, it, c, shardOpts...).Wait(ctx)
			if err != nil {
				t.Msg("iterator %d: %v", i, err)
				return err
			}

			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
