// Package counters increments every element of a shared slice from
// its own goroutine, with one mutex guarding the whole slice.
package counters

import (
	"fmt"
	"slices"

	"github.com/jba/sharing/guard"
	"github.com/jba/sharing/join"
)

// An Array is a fixed-length sequence of ints that many goroutines
// may update. All access goes through a single lock.
type Array struct {
	n    int
	vals *guard.Mutex[[]int]
}

// New returns an Array holding a copy of initial.
func New(initial []int) *Array {
	vals := slices.Clone(initial)
	if vals == nil {
		vals = []int{}
	}
	return &Array{n: len(vals), vals: guard.New(vals)}
}

// Len returns the number of elements. It never changes.
func (a *Array) Len() int { return a.n }

// Increment adds 1 to element i.
func (a *Array) Increment(i int) error {
	return a.Apply(i, func(v *int) { *v++ })
}

// Apply calls f on element i while holding the lock.
// An out-of-range i panics with the lock held, which poisons a.
func (a *Array) Apply(i int, f func(*int)) error {
	return a.vals.Do(func(vals *[]int) {
		f(&(*vals)[i])
	})
}

// Snapshot returns a copy of the current elements.
func (a *Array) Snapshot() ([]int, error) {
	var out []int
	err := a.vals.Do(func(vals *[]int) {
		out = slices.Clone(*vals)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Poisoned reports whether an earlier update panicked.
func (a *Array) Poisoned() bool { return a.vals.Poisoned() }

// Run returns a copy of initial with every element incremented by one.
// Each element is incremented by its own goroutine, and Run returns
// only after all of them have finished.
//
// If any goroutine fails, Run returns a nil slice and an error holding a
// *join.TaskFailure for each failed index.
func Run(initial []int) ([]int, error) {
	return RunFunc(initial, func(_ int, v *int) { *v++ })
}

// RunFunc is like Run, but calls step on each element instead of
// incrementing it. step runs with the array's lock held.
func RunFunc(initial []int, step func(i int, v *int)) ([]int, error) {
	a := New(initial)
	var g join.Group
	for i := range a.Len() {
		g.Go(i, func() error {
			return a.Apply(i, func(v *int) { step(i, v) })
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("counters: %w", err)
	}
	return a.Snapshot()
}
