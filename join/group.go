// Package join runs tasks in goroutines and waits for all of them,
// turning task errors and panics into values the caller can inspect.
package join

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
)

// A Group waits for a collection of tasks to finish.
// Each task is identified by an integer chosen by the caller,
// usually the index of the data it works on.
//
// The zero value is ready to use. A Group may be reused after
// Wait returns.
type Group struct {
	// Logger, if non-nil, receives a Warn record for each failed task.
	Logger *slog.Logger

	mu       sync.Mutex
	count    int           // number of active tasks
	done     chan struct{} // closed when count reaches zero
	failures []*TaskFailure
}

// Go calls f in a new goroutine.
// If f returns an error or panics, the failure is recorded against task.
func (g *Group) Go(task int, f func() error) {
	g.mu.Lock()
	if g.count == 0 {
		g.done = make(chan struct{})
	}
	g.count++
	g.mu.Unlock()

	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: debug.Stack()}
			}
			g.finish(task, err)
		}()
		err = f()
	}()
}

func (g *Group) finish(task int, err error) {
	if err != nil && g.Logger != nil {
		g.Logger.Warn("task failed", "task", task, "error", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.failures = append(g.failures, &TaskFailure{Task: task, Err: err})
	}
	g.count--
	if g.count == 0 {
		close(g.done)
	}
}

// Wait blocks until every task started with Go has returned.
// It returns nil if all succeeded, and otherwise the join of one
// *TaskFailure per failed task, ordered by task.
// Failures are reset so the Group can be reused.
func (g *Group) Wait() error {
	g.mu.Lock()
	for g.count > 0 {
		done := g.done
		g.mu.Unlock()
		<-done
		g.mu.Lock()
	}
	fs := g.failures
	g.failures = nil
	g.mu.Unlock()

	if len(fs) == 0 {
		return nil
	}
	slices.SortFunc(fs, func(a, b *TaskFailure) int { return a.Task - b.Task })
	errs := make([]error, len(fs))
	for i, f := range fs {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// A TaskFailure reports a task that did not complete.
type TaskFailure struct {
	Task int
	Err  error
}

func (f *TaskFailure) Error() string {
	return fmt.Sprintf("task %d: %v", f.Task, f.Err)
}

func (f *TaskFailure) Unwrap() error { return f.Err }

// A PanicError is the cause recorded for a task that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// Unwrap returns the panic value if it is an error, so that
// errors.Is sees through a re-panicked error.
func (p *PanicError) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

// Failures returns the TaskFailures contained in err, in order.
// It looks through errors.Join trees and %w wrapping.
func Failures(err error) []*TaskFailure {
	var out []*TaskFailure
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *TaskFailure:
			out = append(out, e)
		case interface{ Unwrap() []error }:
			for _, c := range e.Unwrap() {
				walk(c)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return out
}
