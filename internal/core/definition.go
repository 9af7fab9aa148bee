package core

import (
	"reflect"
	"slices"
)

// Definition describes a proxy to build: the contract it implements, how to get
// the real target, and which interceptors run around which methods.
type Definition struct {
	contract      reflect.Type
	targetFactory func() any
	registrations []interceptorRegistration
}

// NewDefinition creates a definition for contract whose calls end at the value
// targetFactory returns.
func NewDefinition(contract reflect.Type, targetFactory func() any) *Definition {
	return &Definition{contract: contract, targetFactory: targetFactory}
}

// DefinitionFor creates a definition for the interface T.
func DefinitionFor[T any](targetFactory func() T) *Definition {
	var factory func() any

	if targetFactory != nil {
		factory = func() any { return targetFactory() }
	}

	return NewDefinition(reflect.TypeFor[T](), factory)
}

// Contract returns the interface type the proxy implements.
func (d *Definition) Contract() reflect.Type {
	return d.contract
}

// Implement registers an interceptor for the methods matched by any of the
// selectors, or for every method when none are given. Interceptors run in the
// order they were registered. The factory runs once per proxy instance, the
// first time the interceptor is needed.
func (d *Definition) Implement(factory func() Interceptor, selectors ...MethodSelector) *Definition {
	d.registrations = append(d.registrations, interceptorRegistration{
		factory:   factory,
		selectors: slices.Clone(selectors),
	})

	return d
}

// MethodSelector decides whether an interceptor applies to a method.
type MethodSelector func(method Method) bool

// AllMethods selects every method.
func AllMethods() MethodSelector {
	return func(Method) bool { return true }
}

// MethodsNamed selects methods by name.
func MethodsNamed(names ...string) MethodSelector {
	return func(method Method) bool {
		return slices.Contains(names, method.Name)
	}
}

// MethodsOfKind selects methods by result kind.
func MethodsOfKind(kinds ...MethodKind) MethodSelector {
	return func(method Method) bool {
		return slices.Contains(kinds, method.Kind)
	}
}

type interceptorRegistration struct {
	factory   func() Interceptor
	selectors []MethodSelector
}

func (r interceptorRegistration) applies(method Method) bool {
	if len(r.selectors) == 0 {
		return true
	}

	for _, selector := range r.selectors {
		if selector != nil && selector(method) {
			return true
		}
	}

	return false
}
