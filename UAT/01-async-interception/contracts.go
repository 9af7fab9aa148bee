// Package asyncintercept holds contracts with synchronous and asynchronous methods
// used to exercise interception end to end.
package asyncintercept

import "github.com/toejough/improxy/async"

//go:generate go run ../../proxygen MethodWithTaskReturnValue
//go:generate go run ../../proxygen MethodWithTaskOfTReturnValue
//go:generate go run ../../proxygen MethodWithNoParameters

// MethodWithTaskReturnValue has a method that completes without a value.
type MethodWithTaskReturnValue interface {
	Execute() *async.Task
}

// MethodWithTaskOfTReturnValue has a method that completes with an int.
type MethodWithTaskOfTReturnValue interface {
	Execute() *async.Future[int]
}

// MethodWithNoParameters has a synchronous method without parameters or results.
type MethodWithNoParameters interface {
	Execute()
}
