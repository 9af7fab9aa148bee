package core

import (
	"fmt"
	"reflect"
	"slices"
)

// Builder turns definitions into proxy types.
type Builder struct {
	registry *Registry
}

// NewBuilder creates a builder backed by the registry generated proxies register with.
func NewBuilder() *Builder {
	return NewBuilderWithRegistry(defaultRegistry)
}

// NewBuilderWithRegistry creates a builder backed by registry.
func NewBuilderWithRegistry(registry *Registry) *Builder {
	return &Builder{registry: registry}
}

// GetProxyType validates def and returns a proxy type for it. Later changes to
// def do not affect the returned type.
func (b *Builder) GetProxyType(def *Definition) (*ProxyType, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}

	if def.contract == nil || def.contract.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: %v", ErrNotInterface, def.contract)
	}

	if def.targetFactory == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilTargetFactory, def.contract)
	}

	for i, reg := range def.registrations {
		if reg.factory == nil {
			return nil, fmt.Errorf("%w: registration %d for %s", ErrNilInterceptorFactory, i, def.contract)
		}
	}

	registration, ok := b.registry.Lookup(def.contract)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProxyNotRegistered, def.contract)
	}

	registrations := slices.Clone(def.registrations)

	chains := make([][]int, len(registration.Methods))
	for _, method := range registration.Methods {
		for i, reg := range registrations {
			if reg.applies(method) {
				chains[method.Index] = append(chains[method.Index], i)
			}
		}
	}

	return &ProxyType{
		registration:  registration,
		targetFactory: def.targetFactory,
		registrations: registrations,
		chains:        chains,
	}, nil
}

// ProxyType is a buildable proxy: a generated proxy shape bound to a target
// factory and an interceptor table.
type ProxyType struct {
	registration  Registration
	targetFactory func() any
	registrations []interceptorRegistration
	chains        [][]int // per method index: interceptor registration indices, outermost first
}

// Contract returns the interface the proxy implements.
func (pt *ProxyType) Contract() reflect.Type {
	return pt.registration.Contract
}

// Interceptors returns how many interceptors run around method.
func (pt *ProxyType) Interceptors(method int) int {
	if method < 0 || method >= len(pt.chains) {
		return 0
	}

	return len(pt.chains[method])
}

// Methods returns the contract's methods in declaration order.
func (pt *ProxyType) Methods() []Method {
	return slices.Clone(pt.registration.Methods)
}

// New creates a proxy instance. The target and interceptors are created lazily.
func (pt *ProxyType) New() any {
	dispatcher := &Dispatcher{
		proxyType:    pt,
		interceptors: make([]Interceptor, len(pt.registrations)),
	}
	dispatcher.proxy = pt.registration.New(dispatcher)

	return dispatcher.proxy
}

// Create builds a proxy for T around target with the given interceptors, each
// applied to every method, using the default builder.
func Create[T any](target T, interceptors ...Interceptor) (T, error) {
	def := DefinitionFor(func() T { return target })

	for _, interceptor := range interceptors {
		def.Implement(func() Interceptor { return interceptor })
	}

	proxyType, err := NewBuilder().GetProxyType(def)
	if err != nil {
		var zero T

		return zero, err
	}

	return New[T](proxyType)
}

// New creates a proxy instance from pt typed as T.
func New[T any](pt *ProxyType) (T, error) {
	var zero T

	if pt == nil {
		return zero, ErrNilProxyType
	}

	if pt.Contract() != reflect.TypeFor[T]() {
		return zero, fmt.Errorf("%w: have %s, want %s", ErrWrongContract, pt.Contract(), reflect.TypeFor[T]())
	}

	proxy, ok := pt.New().(T)
	if !ok {
		return zero, fmt.Errorf("%w: generated proxy for %s does not implement it", ErrWrongContract, pt.Contract())
	}

	return proxy, nil
}
