package improxy_test

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/improxy"
	asyncintercept "github.com/toejough/improxy/UAT/01-async-interception"
	"pgregory.net/rapid"
)

// TestLookup_FindsGeneratedProxy verifies that importing a package with a
// generated proxy is enough to make it available.
func TestLookup_FindsGeneratedProxy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg, ok := improxy.Lookup(reflect.TypeFor[asyncintercept.MethodWithTaskOfTReturnValue]())

	g.Expect(ok).To(BeTrue())
	g.Expect(reg.Methods).To(HaveLen(1))
	g.Expect(reg.Methods[0].Name).To(Equal("Execute"))
	g.Expect(reg.Methods[0].Kind).To(Equal(improxy.KindFuture))
	g.Expect(reg.Methods[0].Contract).To(Equal("MethodWithTaskOfTReturnValue"))
}

func TestLookup_UnregisteredContract(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, ok := improxy.Lookup(reflect.TypeFor[unproxied]())

	g.Expect(ok).To(BeFalse())

	_, err := improxy.Create[unproxied](nil)
	g.Expect(err).To(MatchError(improxy.ErrProxyNotRegistered))
}

// TestLookup_ConcurrentAccess verifies the registry is safe for concurrent
// access from multiple goroutines.
func TestLookup_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	const numGoroutines = 100

	contract := reflect.TypeFor[asyncintercept.MethodWithNoParameters]()
	found := make([]bool, numGoroutines)

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := range numGoroutines {
		go func(idx int) {
			defer wg.Done()

			_, found[idx] = improxy.Lookup(contract)
		}(i)
	}

	wg.Wait()

	g.Expect(found).NotTo(ContainElement(false))
}

// TestCreate_ConcurrentAccess_Rapid uses property-based testing to verify
// proxies built concurrently each forward every call exactly once.
func TestCreate_ConcurrentAccess_Rapid(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		numGoroutines := rapid.IntRange(2, 50).Draw(rt, "numGoroutines")
		callsEach := rapid.IntRange(1, 5).Draw(rt, "callsEach")

		target := &countingTarget{}

		var (
			wg       sync.WaitGroup
			failures atomic.Int32
		)

		wg.Add(numGoroutines)

		for range numGoroutines {
			go func() {
				defer wg.Done()

				proxy, err := improxy.Create[asyncintercept.MethodWithNoParameters](target)
				if err != nil {
					failures.Add(1)

					return
				}

				for range callsEach {
					proxy.Execute()
				}
			}()
		}

		wg.Wait()

		if failures.Load() != 0 {
			rt.Fatalf("%d proxies failed to build", failures.Load())
		}

		if got, want := target.calls.Load(), int32(numGoroutines*callsEach); got != want {
			rt.Fatalf("target saw %d calls, want %d", got, want)
		}
	})
}

type countingTarget struct {
	calls atomic.Int32
}

func (c *countingTarget) Execute() {
	c.calls.Add(1)
}

type unproxied interface {
	Nothing()
}
