// Package core provides the internal implementation of improxy's proxy types,
// interceptor chains and invocation dispatch.
package core

import (
	"context"
	"fmt"

	"github.com/toejough/improxy/async"
)

// FutureFactory wraps an untyped asynchronous computation into the concrete
// *async.Future[T] a contract method returns.
type FutureFactory func(ctx context.Context, run func(ctx context.Context) (any, error)) any

// Method describes one method of a proxied contract.
type Method struct {
	Name      string
	Index     int
	Kind      MethodKind
	Contract  string
	NewFuture FutureFactory // set for KindFuture methods only
}

func (m Method) String() string {
	if m.Contract == "" {
		return m.Name
	}

	return m.Contract + "." + m.Name
}

// MethodKind classifies a contract method by its result.
type MethodKind int

// MethodKind values.
const (
	KindSync   MethodKind = iota
	KindTask              // single *async.Task result
	KindFuture            // single *async.Future[T] result
)

func (k MethodKind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindTask:
		return "task"
	case KindFuture:
		return "future"
	default:
		return fmt.Sprintf("MethodKind(%d)", int(k))
	}
}

// FutureOf returns the FutureFactory for methods returning *async.Future[T].
func FutureOf[T any]() FutureFactory {
	return func(ctx context.Context, run func(ctx context.Context) (any, error)) any {
		return async.Start(ctx, func(ctx context.Context) (T, error) {
			var zero T

			value, err := run(ctx)
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
		})
	}
}
