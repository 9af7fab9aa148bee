package core_test

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/toejough/improxy/async"
	"github.com/toejough/improxy/internal/core"
)

// store is the contract the core tests proxy.
type store interface {
	Get(ctx context.Context, key string) (string, error)
	Save(key string, value int) *async.Task
	Count() *async.Future[int]
	Ping()
}

// storeProxy is written the way proxygen writes proxies.
type storeProxy struct {
	dispatcher *core.Dispatcher
}

func (p *storeProxy) Count() *async.Future[int] {
	results := p.dispatcher.Call(2)

	return core.Result[*async.Future[int]](results, 0)
}

func (p *storeProxy) Get(ctx context.Context, key string) (string, error) {
	results := p.dispatcher.Call(0, ctx, key)

	return core.Result[string](results, 0), core.Result[error](results, 1)
}

func (p *storeProxy) Ping() {
	p.dispatcher.Call(3)
}

func (p *storeProxy) ProxyFor() any {
	return p.dispatcher.Target()
}

func (p *storeProxy) Save(key string, value int) *async.Task {
	results := p.dispatcher.Call(1, key, value)

	return core.Result[*async.Task](results, 0)
}

// fakeStore records calls and returns canned values.
type fakeStore struct {
	mu       sync.Mutex
	gets     []string
	saves    map[string]int
	pings    atomic.Int32
	counts   atomic.Int32
	count    int
	getErr   error
	saveErr  error
	lastCtx  context.Context //nolint:containedctx // Recorded for assertions
	saveGate chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{saves: make(map[string]int), count: 42}
}

func (f *fakeStore) Count() *async.Future[int] {
	f.counts.Add(1)

	return async.Value(f.count)
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gets = append(f.gets, key)
	f.lastCtx = ctx

	if f.getErr != nil {
		return "", f.getErr
	}

	return "value:" + key, nil
}

func (f *fakeStore) Ping() {
	f.pings.Add(1)
}

func (f *fakeStore) Save(key string, value int) *async.Task {
	return async.Go(context.Background(), func(context.Context) error {
		if f.saveGate != nil {
			<-f.saveGate
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		f.saves[key] = value

		return f.saveErr
	})
}

func (f *fakeStore) getCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.gets...)
}

func (f *fakeStore) saved(key string) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.saves[key]

	return value, ok
}

// recorder collects events from interceptors in the order they happen.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.events...)
}

// tracingInterceptor records before/after events around every path.
type tracingInterceptor struct {
	core.AsyncBase

	name string
	rec  *recorder
}

func (i *tracingInterceptor) Invoke(inv *core.Invocation) []any {
	i.rec.add(i.name + ":before:" + inv.Method().Name)
	results := inv.Proceed()
	i.rec.add(i.name + ":after:" + inv.Method().Name)

	return results
}

func (i *tracingInterceptor) InvokeFuture(ctx context.Context, inv *core.Invocation) (any, error) {
	i.rec.add(i.name + ":future-before:" + inv.Method().Name)
	value, err := inv.ProceedFuture(ctx)
	i.rec.add(i.name + ":future-after:" + inv.Method().Name)

	return value, err
}

func (i *tracingInterceptor) InvokeTask(ctx context.Context, inv *core.Invocation) error {
	i.rec.add(i.name + ":task-before:" + inv.Method().Name)
	err := inv.ProceedTask(ctx)
	i.rec.add(i.name + ":task-after:" + inv.Method().Name)

	return err
}

func forwardStore(target any, method int, args []any) []any {
	t := target.(store) //nolint:forcetypeassert // Registration contract guarantees the type

	switch method {
	case 0:
		r0, r1 := t.Get(core.Arg[context.Context](args, 0), core.Arg[string](args, 1))

		return []any{r0, r1}
	case 1:
		return []any{t.Save(core.Arg[string](args, 0), core.Arg[int](args, 1))}
	case 2:
		return []any{t.Count()}
	case 3:
		t.Ping()

		return nil
	default:
		return nil
	}
}

func newStoreRegistry() *core.Registry {
	registry := core.NewRegistry()
	registry.Register(storeRegistration())

	return registry
}

func storeRegistration() core.Registration {
	return core.Registration{
		Contract: reflect.TypeFor[store](),
		Methods: []core.Method{
			{Name: "Get", Index: 0, Kind: core.KindSync},
			{Name: "Save", Index: 1, Kind: core.KindTask},
			{Name: "Count", Index: 2, Kind: core.KindFuture, NewFuture: core.FutureOf[int]()},
			{Name: "Ping", Index: 3, Kind: core.KindSync},
		},
		Forward: forwardStore,
		New: func(dispatcher *core.Dispatcher) any {
			return &storeProxy{dispatcher: dispatcher}
		},
	}
}

func buildStore(def *core.Definition) (store, error) {
	proxyType, err := core.NewBuilderWithRegistry(newStoreRegistry()).GetProxyType(def)
	if err != nil {
		return nil, err
	}

	return core.New[store](proxyType)
}
