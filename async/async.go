// Package async provides the awaitable result types used by proxied contract methods.
//
// A method returning *Task signals bare completion; a method returning *Future[T]
// produces a typed value. Both can be awaited with a context and both carry an error.
package async

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Awaiter is anything that can be awaited without knowing its result type.
// Both *Task and *Future[T] satisfy it.
type Awaiter interface {
	AwaitAny(ctx context.Context) (any, error)
}

// Future is the typed result of an asynchronous computation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Failed returns a future that has already failed with err.
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	f.complete(*new(T), err)

	return f
}

// Start runs fn on a new goroutine and returns a future for its result.
// A panic in fn is recovered and reported as a *PanicError.
func Start[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()

	go func() {
		var (
			value T
			err   error
		)

		defer func() {
			if r := recover(); r != nil {
				var zero T

				f.complete(zero, &PanicError{Value: r})

				return
			}

			f.complete(value, err)
		}()

		value, err = fn(ctx)
	}()

	return f
}

// Value returns a future that has already completed with v.
func Value[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.complete(v, nil)

	return f
}

// Await blocks until the future completes or ctx is done.
// If ctx ends first, ctx.Err() is returned and the computation keeps running.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	var zero T

	if f == nil {
		return zero, ErrNilFuture
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return zero, fmt.Errorf("awaiting future: %w", ctx.Err())
	}
}

// AwaitAny awaits the future and returns its value untyped.
func (f *Future[T]) AwaitAny(ctx context.Context) (any, error) {
	value, err := f.Await(ctx)
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Done returns a channel that is closed when the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	if f == nil {
		return closedChan
	}

	return f.done
}

func (f *Future[T]) complete(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// PanicError reports a panic recovered from an asynchronous computation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPanicked, e.Value)
}

func (e *PanicError) Unwrap() error {
	return ErrPanicked
}

// Task is a bare completion signal with an optional error.
// A nil *Task is treated as already completed.
type Task struct {
	done chan struct{}
	err  error
}

// Completed returns a task that has already succeeded.
func Completed() *Task {
	t := newTask()
	t.complete(nil)

	return t
}

// FailedTask returns a task that has already failed with err.
func FailedTask(err error) *Task {
	t := newTask()
	t.complete(err)

	return t
}

// Go runs fn on a new goroutine and returns a task that completes when fn returns.
// A panic in fn is recovered and reported as a *PanicError.
func Go(ctx context.Context, fn func(ctx context.Context) error) *Task {
	t := newTask()

	go func() {
		var err error

		defer func() {
			if r := recover(); r != nil {
				t.complete(&PanicError{Value: r})

				return
			}

			t.complete(err)
		}()

		err = fn(ctx)
	}()

	return t
}

// AwaitAny waits for the task. The value is always nil.
func (t *Task) AwaitAny(ctx context.Context) (any, error) {
	return nil, t.Wait(ctx)
}

// Done returns a channel that is closed when the task completes.
func (t *Task) Done() <-chan struct{} {
	if t == nil {
		return closedChan
	}

	return t.done
}

// Err returns the task's error, or nil if it succeeded or has not completed yet.
func (t *Task) Err() error {
	if t == nil {
		return nil
	}

	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task completes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}

	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return fmt.Errorf("waiting for task: %w", ctx.Err())
	}
}

func (t *Task) complete(err error) {
	t.err = err
	close(t.done)
}

// All waits for every awaiter and returns the first error encountered.
func All(ctx context.Context, awaiters ...Awaiter) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, awaiter := range awaiters {
		group.Go(func() error {
			_, err := awaiter.AwaitAny(groupCtx)

			return err
		})
	}

	err := group.Wait()
	if err != nil {
		return fmt.Errorf("awaiting all: %w", err)
	}

	return nil
}

// Exported variables.
var (
	ErrNilFuture = errors.New("nil future")
	ErrPanicked  = errors.New("asynchronous computation panicked")
)

// unexported variables.
var (
	//nolint:gochecknoglobals // Shared closed channel for nil tasks and futures
	closedChan = func() chan struct{} {
		ch := make(chan struct{})
		close(ch)

		return ch
	}()
)

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}
