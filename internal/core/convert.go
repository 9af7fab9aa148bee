package core

import "fmt"

// Proxy is implemented by every generated proxy.
type Proxy interface {
	ProxyFor() any
}

// Arg returns args[i] as T, or T's zero value if the slot is missing or nil.
// Generated Forward functions use it to unpack arguments.
func Arg[T any](args []any, i int) T {
	return slot[T]("argument", args, i)
}

// Result returns results[i] as T, or T's zero value if the slot is missing or nil.
// Generated proxy methods use it to unpack results.
func Result[T any](results []any, i int) T {
	return slot[T]("result", results, i)
}

// UnwrapProxy follows ProxyFor until it reaches a value that is not a proxy.
func UnwrapProxy(value any) any {
	for {
		proxy, ok := value.(Proxy)
		if !ok {
			return value
		}

		value = proxy.ProxyFor()
	}
}

func slot[T any](what string, values []any, i int) T {
	var zero T

	if i < 0 || i >= len(values) || values[i] == nil {
		return zero
	}

	typed, ok := values[i].(T)
	if !ok {
		panic(fmt.Errorf("%w: %s %d: want %T, got %T", ErrResultType, what, i, zero, values[i]))
	}

	return typed
}
