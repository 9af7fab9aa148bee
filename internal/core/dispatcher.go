package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/toejough/improxy/async"
)

// Dispatcher carries calls from a generated proxy through its interceptor chain
// to the target. Each proxy instance owns one.
type Dispatcher struct {
	proxyType *ProxyType
	proxy     any

	mu           sync.Mutex
	target       any
	interceptors []Interceptor // indexed by registration, created on first use
}

// Call intercepts a call to the contract method with the given index.
func (d *Dispatcher) Call(method int, args ...any) []any {
	inv := &Invocation{
		Args:       args,
		method:     d.proxyType.registration.Methods[method],
		ctx:        contextFromArgs(args),
		dispatcher: d,
	}

	return d.invoke(inv)
}

// Target returns the real implementation, creating it on first use.
// It panics with ErrNilTarget if the target factory returns nil.
func (d *Dispatcher) Target() any {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.target != nil {
		return d.target
	}

	target := d.proxyType.targetFactory()
	if target == nil {
		panic(fmt.Errorf("%w: %s", ErrNilTarget, d.proxyType.Contract()))
	}

	d.target = target

	return target
}

func (d *Dispatcher) interceptor(registration int) Interceptor {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ic := d.interceptors[registration]; ic != nil {
		return ic
	}

	ic := d.proxyType.registrations[registration].factory()
	if ic == nil {
		panic(fmt.Errorf("%w: registration %d for %s", ErrNilInterceptor, registration, d.proxyType.Contract()))
	}

	d.interceptors[registration] = ic

	return ic
}

func (d *Dispatcher) invoke(inv *Invocation) []any {
	chain := d.proxyType.chains[inv.method.Index]
	if inv.position >= len(chain) {
		return d.proxyType.registration.Forward(d.Target(), inv.method.Index, inv.Args)
	}

	ic := d.interceptor(chain[inv.position])

	asyncIC, isAsync := ic.(AsyncInterceptor)
	if !isAsync {
		return ic.Invoke(inv)
	}

	switch inv.method.Kind {
	case KindTask:
		return []any{async.Go(inv.ctx, func(ctx context.Context) error {
			return asyncIC.InvokeTask(ctx, inv)
		})}
	case KindFuture:
		return []any{inv.method.NewFuture(inv.ctx, func(ctx context.Context) (any, error) {
			return asyncIC.InvokeFuture(ctx, inv)
		})}
	default:
		return ic.Invoke(inv)
	}
}
