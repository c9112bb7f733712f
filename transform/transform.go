// Package transform applies a function to every element of a slice,
// either sequentially or by splitting the slice among goroutines.
package transform

import (
	"context"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/jba/sharing/join"
)

// Map returns a new slice holding f(x) for each x in v, in order.
func Map[T, U any](v []T, f func(T) U) []U {
	out := make([]U, len(v))
	for i, x := range v {
		out[i] = f(x)
	}
	return out
}

// Increment returns a copy of v with every element incremented.
func Increment(v []int) []int {
	return Map(v, func(x int) int { return x + 1 })
}

// A Span is the half-open index range [Start, End).
type Span struct {
	Start, End int
}

// Len returns the number of indexes in s.
func (s Span) Len() int { return s.End - s.Start }

// Partition splits [0, n) into at most parts contiguous, non-empty spans
// of nearly equal length. The spans are in order and cover every index
// exactly once.
func Partition(n, parts int) []Span {
	if n <= 0 {
		return nil
	}
	if parts <= 0 {
		parts = 1
	}
	parts = min(parts, n)
	spans := make([]Span, parts)
	size, extra := n/parts, n%parts
	start := 0
	for p := range spans {
		end := start + size
		if p < extra {
			end++
		}
		spans[p] = Span{start, end}
		start = end
	}
	return spans
}

// InPlace calls f(i, &v[i]) for every index of v.
//
// v is split by Partition into at most workers spans, and each span is
// processed by its own goroutine. Spans are disjoint, so no lock is taken.
// If workers <= 0, runtime.GOMAXPROCS(0) is used.
//
// InPlace returns after every span is done. A panic in f is returned as
// a *join.TaskFailure whose Task is the start of the span. When ctx is
// done, spans that have not started are skipped and ctx.Err() is returned.
func InPlace[T any](ctx context.Context, v []T, workers int, f func(i int, x *T)) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	spans := Partition(len(v), workers)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, s := range spans {
		chunk := v[s.Start:s.End]
		g.Go(func() (err error) {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					err = &join.TaskFailure{
						Task: s.Start,
						Err:  &join.PanicError{Value: r, Stack: debug.Stack()},
					}
				}
			}()
			for j := range chunk {
				f(s.Start+j, &chunk[j])
			}
			return nil
		})
	}
	return g.Wait()
}

// Square replaces every element of v with its square.
func Square(ctx context.Context, v []int, workers int) error {
	return InPlace(ctx, v, workers, func(_ int, x *int) { *x *= *x })
}
