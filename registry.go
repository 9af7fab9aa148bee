package improxy

import (
	"reflect"

	"github.com/toejough/improxy/internal/core"
)

// Lookup returns the registration for contract, if a generated proxy registered one.
func Lookup(contract reflect.Type) (Registration, bool) {
	return core.Lookup(contract)
}

// Register records a generated proxy. Generated files call it from init().
// A later registration for the same contract replaces the earlier one.
func Register(reg Registration) {
	core.Register(reg)
}
