package core

import (
	"context"
	"fmt"

	"github.com/toejough/improxy/async"
)

// Invocation describes a single intercepted call.
// Interceptors may replace entries in Args; later interceptors and the target see the change.
type Invocation struct {
	Args []any

	method     Method
	ctx        context.Context //nolint:containedctx // The call's own context, taken from its arguments
	dispatcher *Dispatcher
	position   int
}

// Arg returns argument i, or nil if there is no such argument.
func (inv *Invocation) Arg(i int) any {
	if i < 0 || i >= len(inv.Args) {
		return nil
	}

	return inv.Args[i]
}

// Context returns the call's context: its first argument if that is a
// context.Context, otherwise context.Background().
func (inv *Invocation) Context() context.Context {
	return inv.ctx
}

// Method returns the contract method being called.
func (inv *Invocation) Method() Method {
	return inv.method
}

// Proceed runs the rest of the chain and returns the method's results.
func (inv *Invocation) Proceed() []any {
	next := *inv
	next.position++

	return inv.dispatcher.invoke(&next)
}

// ProceedFuture runs the rest of the chain for a future-returning method and
// awaits the produced value.
func (inv *Invocation) ProceedFuture(ctx context.Context) (any, error) {
	results := inv.Proceed()
	if len(results) != 1 {
		return nil, fmt.Errorf("%w: %s returns %d results", ErrNotAsync, inv.method, len(results))
	}

	if results[0] == nil {
		return nil, fmt.Errorf("%s: %w", inv.method, async.ErrNilFuture)
	}

	awaiter, ok := results[0].(async.Awaiter)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", ErrNotAsync, inv.method, results[0])
	}

	return awaiter.AwaitAny(ctx)
}

// ProceedTask runs the rest of the chain for a task-returning method and waits
// for the task to complete.
func (inv *Invocation) ProceedTask(ctx context.Context) error {
	results := inv.Proceed()
	if len(results) != 1 {
		return fmt.Errorf("%w: %s returns %d results", ErrNotAsync, inv.method, len(results))
	}

	if results[0] == nil {
		return nil
	}

	task, ok := results[0].(*async.Task)
	if !ok {
		return fmt.Errorf("%w: %s returned %T", ErrNotAsync, inv.method, results[0])
	}

	return task.Wait(ctx)
}

// Proxy returns the proxy instance the call was made on.
func (inv *Invocation) Proxy() any {
	return inv.dispatcher.proxy
}

// Target returns the real implementation the call is forwarded to, creating it if needed.
func (inv *Invocation) Target() any {
	return inv.dispatcher.Target()
}

// ProceedAs runs the rest of the chain for a future-returning method and
// returns the value typed as T.
func ProceedAs[T any](ctx context.Context, inv *Invocation) (T, error) {
	var zero T

	value, err := inv.ProceedFuture(ctx)
	if err != nil {
		return zero, err
	}

	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: want %T, got %T", ErrResultType, zero, value)
	}

	return typed, nil
}

func contextFromArgs(args []any) context.Context {
	if len(args) > 0 {
		if ctx, ok := args[0].(context.Context); ok && ctx != nil {
			return ctx
		}
	}

	return context.Background()
}
