package core_test

import (
	"context"
	"io"
	"reflect"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/improxy/internal/core"
)

func TestBuilder_GetProxyType_Errors(t *testing.T) {
	t.Parallel()

	passThrough := func() core.Interceptor {
		return core.InterceptorFunc(func(inv *core.Invocation) []any { return inv.Proceed() })
	}

	tests := []struct {
		name string
		def  *core.Definition
		want error
	}{
		{
			name: "nil definition",
			def:  nil,
			want: core.ErrNilDefinition,
		},
		{
			name: "contract is not an interface",
			def:  core.NewDefinition(reflect.TypeFor[int](), func() any { return 1 }),
			want: core.ErrNotInterface,
		},
		{
			name: "nil contract",
			def:  core.NewDefinition(nil, func() any { return 1 }),
			want: core.ErrNotInterface,
		},
		{
			name: "nil target factory",
			def:  core.DefinitionFor[store](nil),
			want: core.ErrNilTargetFactory,
		},
		{
			name: "nil interceptor factory",
			def:  core.DefinitionFor(func() store { return newFakeStore() }).Implement(passThrough).Implement(nil),
			want: core.ErrNilInterceptorFactory,
		},
		{
			name: "contract without generated proxy",
			def:  core.DefinitionFor(func() io.Reader { return nil }),
			want: core.ErrProxyNotRegistered,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			_, err := core.NewBuilderWithRegistry(newStoreRegistry()).GetProxyType(testCase.def)

			g.Expect(err).To(MatchError(testCase.want))
		})
	}
}

func TestBuilder_GetProxyType_IgnoresLaterImplements(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	rec := &recorder{}
	def := core.DefinitionFor(func() store { return newFakeStore() })

	proxyType, err := core.NewBuilderWithRegistry(newStoreRegistry()).GetProxyType(def)
	g.Expect(err).NotTo(HaveOccurred())

	def.Implement(func() core.Interceptor { return &tracingInterceptor{name: "late", rec: rec} })

	proxy, err := core.New[store](proxyType)
	g.Expect(err).NotTo(HaveOccurred())

	proxy.Ping()

	g.Expect(rec.list()).To(BeEmpty())
	g.Expect(proxyType.Interceptors(3)).To(Equal(0))
}

func TestBuilder_GetProxyType_MethodTable(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	def := core.DefinitionFor(func() store { return newFakeStore() }).
		Implement(func() core.Interceptor { return core.AsyncBase{} }).
		Implement(func() core.Interceptor { return core.AsyncBase{} }, core.MethodsNamed("Count"))

	proxyType, err := core.NewBuilderWithRegistry(newStoreRegistry()).GetProxyType(def)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(proxyType.Contract()).To(Equal(reflect.TypeFor[store]()))
	g.Expect(proxyType.Methods()).To(HaveLen(4))
	g.Expect(proxyType.Methods()[2].String()).To(Equal("store.Count"))
	g.Expect(proxyType.Interceptors(0)).To(Equal(1))
	g.Expect(proxyType.Interceptors(2)).To(Equal(2))
	g.Expect(proxyType.Interceptors(99)).To(Equal(0))
}

func TestCreate_UsesDefaultRegistry(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	core.Register(core.Registration{
		Contract: reflect.TypeFor[greeter](),
		Methods:  []core.Method{{Name: "Greet", Index: 0}},
		Forward: func(target any, _ int, args []any) []any {
			return []any{target.(greeter).Greet(core.Arg[string](args, 0))} //nolint:forcetypeassert // test registration
		},
		New: func(dispatcher *core.Dispatcher) any { return greeterProxy{dispatcher: dispatcher} },
	})

	shout := core.InterceptorFunc(func(inv *core.Invocation) []any {
		results := inv.Proceed()

		return []any{core.Result[string](results, 0) + "!"}
	})

	proxy, err := core.Create[greeter](englishGreeter{}, shout)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(proxy.Greet("ada")).To(Equal("hello ada!"))
}

func TestNew_WrongContract(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	proxyType, err := core.NewBuilderWithRegistry(newStoreRegistry()).
		GetProxyType(core.DefinitionFor(func() store { return newFakeStore() }))
	g.Expect(err).NotTo(HaveOccurred())

	_, err = core.New[io.Reader](proxyType)

	g.Expect(err).To(MatchError(core.ErrWrongContract))
}

func TestNew_NilProxyType(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	proxy, err := core.New[store](nil)

	g.Expect(err).To(MatchError(core.ErrNilProxyType))
	g.Expect(proxy).To(BeNil())
}

func TestProceedFuture_OnSyncMethodFails(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var proceedErr error

	misuse := core.InterceptorFunc(func(inv *core.Invocation) []any {
		_, proceedErr = inv.ProceedFuture(context.Background())

		return nil
	})

	proxy, err := buildStore(core.DefinitionFor(func() store { return newFakeStore() }).
		Implement(func() core.Interceptor { return misuse }))
	g.Expect(err).NotTo(HaveOccurred())

	proxy.Ping()

	g.Expect(proceedErr).To(MatchError(core.ErrNotAsync))
}

type englishGreeter struct{}

func (englishGreeter) Greet(name string) string { return "hello " + name }

type greeter interface {
	Greet(name string) string
}

type greeterProxy struct {
	dispatcher *core.Dispatcher
}

func (p greeterProxy) Greet(name string) string {
	return core.Result[string](p.dispatcher.Call(0, name), 0)
}
