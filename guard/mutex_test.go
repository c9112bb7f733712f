package guard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	m := New(10)
	require.NoError(t, m.Do(func(v *int) { *v += 5 }))
	got, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, 15, got)
	assert.False(t, m.Poisoned())
}

func TestDoSerializes(t *testing.T) {
	m := New(0)
	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			for range 100 {
				if err := m.Do(func(v *int) { *v++ }); err != nil {
					t.Error(err)
				}
			}
		})
	}
	wg.Wait()
	got, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, 10_000, got)
}

func TestPanicPoisons(t *testing.T) {
	m := New([]int{1, 2, 3})

	assert.PanicsWithValue(t, "boom", func() {
		_ = m.Do(func(v *[]int) {
			(*v)[0] = 100
			panic("boom")
		})
	})
	assert.True(t, m.Poisoned())

	called := false
	err := m.Do(func(*[]int) { called = true })
	assert.ErrorIs(t, err, ErrPoisoned)
	assert.False(t, called, "Do must not run f on a poisoned mutex")

	// The half-updated value is still observable, with the error.
	v, err := m.Value()
	assert.ErrorIs(t, err, ErrPoisoned)
	assert.Equal(t, []int{100, 2, 3}, v)
}

func TestPanicReleasesLock(t *testing.T) {
	m := New(0)
	assert.Panics(t, func() {
		_ = m.Do(func(*int) { panic("boom") })
	})
	// Would deadlock if the lock were still held.
	done := make(chan struct{})
	go func() {
		_ = m.Do(func(*int) {})
		close(done)
	}()
	<-done
}

func TestClearPoison(t *testing.T) {
	m := New(1)
	assert.Panics(t, func() {
		_ = m.Do(func(*int) { panic("boom") })
	})
	require.True(t, m.Poisoned())

	m.ClearPoison()
	require.NoError(t, m.Do(func(v *int) { *v = 7 }))
	got, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}
