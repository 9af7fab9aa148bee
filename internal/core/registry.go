package core

import (
	"fmt"
	"reflect"
	"sync"
)

// Registration describes a generated proxy for one contract.
// Generated code builds one and passes it to Register from init().
type Registration struct {
	Contract reflect.Type
	Methods  []Method
	// Forward calls method on target with args and returns its results.
	Forward func(target any, method int, args []any) []any
	// New creates a proxy instance that sends its calls to the dispatcher.
	New func(dispatcher *Dispatcher) any
}

// Registry maps contract types to their generated proxies.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[reflect.Type]Registration)}
}

// Lookup returns the registration for contract.
func (r *Registry) Lookup(contract reflect.Type) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[contract]

	return reg, ok
}

// Register adds reg, replacing any earlier registration for the same contract.
// It panics if reg is malformed; registrations come from generated code, so that
// is a programming error caught at init.
func (r *Registry) Register(reg Registration) {
	err := validateRegistration(reg)
	if err != nil {
		panic(err)
	}

	methods := make([]Method, len(reg.Methods))
	copy(methods, reg.Methods)

	for i := range methods {
		if methods[i].Contract == "" {
			methods[i].Contract = reg.Contract.Name()
		}
	}

	reg.Methods = methods

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[reg.Contract] = reg
}

// Lookup returns the registration for contract from the default registry.
func Lookup(contract reflect.Type) (Registration, bool) {
	return defaultRegistry.Lookup(contract)
}

// Register adds reg to the default registry.
func Register(reg Registration) {
	defaultRegistry.Register(reg)
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Generated proxies register themselves here from init()
	defaultRegistry = NewRegistry()
)

func validateRegistration(reg Registration) error {
	if reg.Contract == nil {
		return fmt.Errorf("%w: nil contract", ErrInvalidRegistration)
	}

	if reg.Contract.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRegistration, reg.Contract, ErrNotInterface)
	}

	if reg.Forward == nil || reg.New == nil {
		return fmt.Errorf("%w: %s: Forward and New are required", ErrInvalidRegistration, reg.Contract)
	}

	for i, method := range reg.Methods {
		if method.Index != i {
			return fmt.Errorf("%w: %s.%s has index %d at position %d",
				ErrInvalidRegistration, reg.Contract, method.Name, method.Index, i)
		}

		if method.Kind == KindFuture && method.NewFuture == nil {
			return fmt.Errorf("%w: %s.%s returns a future but has no NewFuture",
				ErrInvalidRegistration, reg.Contract, method.Name)
		}
	}

	return nil
}
