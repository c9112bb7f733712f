// Package guard provides a mutex that owns the value it protects
// and refuses further use after a holder panics.
package guard

import (
	"errors"
	"sync"
)

// ErrPoisoned is returned by a Mutex whose previous holder panicked.
var ErrPoisoned = errors.New("guard: lock poisoned by a panicking holder")

// A Mutex owns a value of type T. The value is reachable only
// inside Do, while the lock is held.
//
// If the function passed to Do panics, the Mutex is poisoned:
// every later Do returns ErrPoisoned instead of exposing a value
// that may have been left half-updated.
type Mutex[T any] struct {
	mu       sync.Mutex
	poisoned bool
	value    T
}

// New returns a Mutex that owns v.
func New[T any](v T) *Mutex[T] {
	return &Mutex[T]{value: v}
}

// Do runs f with exclusive access to the value.
// A panic in f poisons m and keeps unwinding.
func (m *Mutex[T]) Do(f func(*T)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.poisoned {
		return ErrPoisoned
	}
	ok := false
	defer func() {
		if !ok {
			m.poisoned = true
		}
	}()
	f(&m.value)
	ok = true
	return nil
}

// Value returns a copy of the value.
// If m is poisoned it still returns the value, along with ErrPoisoned.
func (m *Mutex[T]) Value() (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.poisoned {
		return m.value, ErrPoisoned
	}
	return m.value, nil
}

// Poisoned reports whether a holder of m has panicked.
func (m *Mutex[T]) Poisoned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.poisoned
}

// ClearPoison makes m usable again. Call it only after repairing
// whatever the panicking holder left behind.
func (m *Mutex[T]) ClearPoison() {
	m.mu.Lock()
	m.poisoned = false
	m.mu.Unlock()
}
