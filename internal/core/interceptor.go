package core

import "context"

// AsyncBase provides pass-through implementations of every AsyncInterceptor hook.
// Embed it and override only the hooks you need.
type AsyncBase struct{}

// Invoke proceeds with the call.
func (AsyncBase) Invoke(inv *Invocation) []any {
	return inv.Proceed()
}

// InvokeFuture proceeds with the call and awaits its value.
func (AsyncBase) InvokeFuture(ctx context.Context, inv *Invocation) (any, error) {
	return inv.ProceedFuture(ctx)
}

// InvokeTask proceeds with the call and waits for it to complete.
func (AsyncBase) InvokeTask(ctx context.Context, inv *Invocation) error {
	return inv.ProceedTask(ctx)
}

// AsyncInterceptor is an Interceptor with dedicated hooks for asynchronous methods.
//
// For methods returning *async.Task the chain calls InvokeTask on a new goroutine
// and hands the caller a task that completes when the hook returns. For methods
// returning *async.Future[T] it calls InvokeFuture the same way, and the hook's
// value becomes the future's value. Invoke is only used for synchronous methods.
type AsyncInterceptor interface {
	Interceptor
	InvokeTask(ctx context.Context, inv *Invocation) error
	InvokeFuture(ctx context.Context, inv *Invocation) (any, error)
}

// Interceptor runs around a proxied call. It calls inv.Proceed to continue the
// chain and returns the method's results.
type Interceptor interface {
	Invoke(inv *Invocation) []any
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(inv *Invocation) []any

// Invoke calls f.
func (f InterceptorFunc) Invoke(inv *Invocation) []any {
	return f(inv)
}
