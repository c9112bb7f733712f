// Package readonly shares an immutable slice among many goroutines.
//
// No goroutine writes to the slice, so no lock is needed. Every goroutine
// is joined before FanOut returns, so none outlives the data it reads.
package readonly

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FanOut calls visit(ctx, i, v[i]) for each index of v, each call in its
// own goroutine, and waits for all of them.
//
// The first non-nil error cancels the context passed to the other calls
// and is returned by FanOut.
// visit must not modify v.
func FanOut[T any](ctx context.Context, v []T, visit func(ctx context.Context, i int, x T) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, x := range v {
		g.Go(func() error {
			return visit(ctx, i, x)
		})
	}
	return g.Wait()
}
