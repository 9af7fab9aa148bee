package core

import "errors"

// Exported variables.
var (
	ErrInvalidRegistration   = errors.New("invalid proxy registration")
	ErrNilDefinition         = errors.New("nil proxy definition")
	ErrNilInterceptor        = errors.New("interceptor factory returned nil")
	ErrNilInterceptorFactory = errors.New("nil interceptor factory")
	ErrNilProxyType          = errors.New("nil proxy type")
	ErrNilTarget             = errors.New("target factory returned nil")
	ErrNilTargetFactory      = errors.New("nil target factory")
	ErrNotAsync              = errors.New("method does not return a single task or future")
	ErrNotInterface          = errors.New("contract is not an interface type")
	ErrProxyNotRegistered    = errors.New("no proxy registered for contract (run proxygen on it)")
	ErrResultType            = errors.New("unexpected result type")
	ErrWrongContract         = errors.New("proxy type does not implement the requested contract")
)
