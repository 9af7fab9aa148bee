// Package improxy builds interface proxies that run every call through a chain
// of interceptors before forwarding it to a real implementation.
//
// Proxy types are generated with proxygen (//go:generate proxygen <Interface>);
// the generated file registers itself, and a Builder binds it to a target and
// interceptors at run time:
//
//	def := improxy.DefinitionFor(func() Store { return realStore }).
//		Implement(func() improxy.Interceptor { return &timing{} })
//	proxyType, err := improxy.NewBuilder().GetProxyType(def)
//	store, err := improxy.New[Store](proxyType)
//
// This is the public API entry point. Implementation lives in internal/core.
package improxy

import (
	"context"
	"reflect"

	"github.com/toejough/improxy/internal/core"
)

// AsyncBase provides pass-through implementations of every AsyncInterceptor hook.
type AsyncBase = core.AsyncBase

// AsyncInterceptor is an Interceptor with dedicated hooks for asynchronous methods.
type AsyncInterceptor = core.AsyncInterceptor

// Builder turns definitions into proxy types.
type Builder = core.Builder

// NewBuilder creates a builder backed by the registry generated proxies register with.
func NewBuilder() *Builder {
	return core.NewBuilder()
}

// NewBuilderWithRegistry creates a builder backed by registry.
func NewBuilderWithRegistry(registry *Registry) *Builder {
	return core.NewBuilderWithRegistry(registry)
}

// Definition describes a proxy to build.
type Definition = core.Definition

// NewDefinition creates a definition for contract whose calls end at the value
// targetFactory returns.
func NewDefinition(contract reflect.Type, targetFactory func() any) *Definition {
	return core.NewDefinition(contract, targetFactory)
}

// Dispatcher carries calls from a generated proxy through its interceptor chain.
type Dispatcher = core.Dispatcher

// FutureFactory wraps an untyped asynchronous computation into a typed future.
type FutureFactory = core.FutureFactory

// Interceptor runs around a proxied call.
type Interceptor = core.Interceptor

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc = core.InterceptorFunc

// Invocation describes a single intercepted call.
type Invocation = core.Invocation

// Method describes one method of a proxied contract.
type Method = core.Method

// MethodKind classifies a contract method by its result.
type MethodKind = core.MethodKind

// MethodSelector decides whether an interceptor applies to a method.
type MethodSelector = core.MethodSelector

// Proxy is implemented by every generated proxy.
type Proxy = core.Proxy

// ProxyType is a buildable proxy.
type ProxyType = core.ProxyType

// Registration describes a generated proxy for one contract.
type Registration = core.Registration

// Registry maps contract types to their generated proxies.
type Registry = core.Registry

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return core.NewRegistry()
}

// MethodKind values.
const (
	KindSync   = core.KindSync
	KindTask   = core.KindTask
	KindFuture = core.KindFuture
)

// Errors re-exported from internal/core.
var (
	ErrInvalidRegistration   = core.ErrInvalidRegistration
	ErrNilDefinition         = core.ErrNilDefinition
	ErrNilInterceptor        = core.ErrNilInterceptor
	ErrNilInterceptorFactory = core.ErrNilInterceptorFactory
	ErrNilProxyType          = core.ErrNilProxyType
	ErrNilTarget             = core.ErrNilTarget
	ErrNilTargetFactory      = core.ErrNilTargetFactory
	ErrNotAsync              = core.ErrNotAsync
	ErrNotInterface          = core.ErrNotInterface
	ErrProxyNotRegistered    = core.ErrProxyNotRegistered
	ErrResultType            = core.ErrResultType
	ErrWrongContract         = core.ErrWrongContract
)

// AllMethods selects every method.
func AllMethods() MethodSelector {
	return core.AllMethods()
}

// Arg returns args[i] as T, or T's zero value if the slot is missing or nil.
func Arg[T any](args []any, i int) T {
	return core.Arg[T](args, i)
}

// Create builds a proxy for T around target with the given interceptors.
func Create[T any](target T, interceptors ...Interceptor) (T, error) {
	return core.Create(target, interceptors...)
}

// DefinitionFor creates a definition for the interface T.
func DefinitionFor[T any](targetFactory func() T) *Definition {
	return core.DefinitionFor(targetFactory)
}

// FutureOf returns the FutureFactory for methods returning *async.Future[T].
func FutureOf[T any]() FutureFactory {
	return core.FutureOf[T]()
}

// MethodsNamed selects methods by name.
func MethodsNamed(names ...string) MethodSelector {
	return core.MethodsNamed(names...)
}

// MethodsOfKind selects methods by result kind.
func MethodsOfKind(kinds ...MethodKind) MethodSelector {
	return core.MethodsOfKind(kinds...)
}

// New creates a proxy instance from pt typed as T.
func New[T any](pt *ProxyType) (T, error) {
	return core.New[T](pt)
}

// ProceedAs runs the rest of the chain for a future-returning method and
// returns the value typed as T.
func ProceedAs[T any](ctx context.Context, inv *Invocation) (T, error) {
	return core.ProceedAs[T](ctx, inv)
}

// Result returns results[i] as T, or T's zero value if the slot is missing or nil.
func Result[T any](results []any, i int) T {
	return core.Result[T](results, i)
}

// UnwrapProxy follows ProxyFor until it reaches a value that is not a proxy.
func UnwrapProxy(value any) any {
	return core.UnwrapProxy(value)
}
