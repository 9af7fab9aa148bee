package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/toejough/improxy/async"
	"pgregory.net/rapid"
)

func TestAll_ReturnsFirstError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	err := async.All(context.Background(), async.Completed(), async.FailedTask(errBoom), async.Value(1))

	g.Expect(err).To(MatchError(errBoom))
}

func TestAll_SucceedsWhenEverythingCompletes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	task := async.Go(context.Background(), func(context.Context) error { return nil })
	future := async.Start(context.Background(), func(context.Context) (string, error) { return "ok", nil })

	g.Expect(async.All(context.Background(), task, future)).To(Succeed())
}

func TestFuture_AwaitHonoursContext(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	release := make(chan struct{})
	defer close(release)

	future := async.Start(context.Background(), func(context.Context) (int, error) {
		<-release

		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := future.Await(ctx)

	g.Expect(err).To(MatchError(context.DeadlineExceeded))
}

func TestFuture_NilAwaitFails(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var future *async.Future[int]

	_, err := future.Await(context.Background())

	g.Expect(err).To(MatchError(async.ErrNilFuture))
	g.Expect(future.Done()).To(BeClosed())
}

func TestFuture_PanicBecomesPanicError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	future := async.Start(context.Background(), func(context.Context) (int, error) {
		panic("kaboom")
	})

	_, err := future.Await(context.Background())

	var panicErr *async.PanicError

	g.Expect(errors.As(err, &panicErr)).To(BeTrue())
	g.Expect(panicErr.Value).To(Equal("kaboom"))
	g.Expect(err).To(MatchError(async.ErrPanicked))
}

// TestFuture_StartReturnsProducedValue_Property proves the awaited value is the one fn produced.
func TestFuture_StartReturnsProducedValue_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		want := rapid.Int().Draw(rt, "value")

		future := async.Start(context.Background(), func(context.Context) (int, error) { return want, nil })

		got, err := future.Await(context.Background())
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		if got != want {
			rt.Fatalf("Await() = %d, want %d", got, want)
		}

		anyGot, err := future.AwaitAny(context.Background())
		if err != nil || anyGot != want {
			rt.Fatalf("AwaitAny() = %v, %v; want %d", anyGot, err, want)
		}
	})
}

func TestFuture_ValueAndFailed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	value, err := async.Value("x").Await(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(value).To(Equal("x"))

	_, err = async.Failed[string](errBoom).Await(context.Background())
	g.Expect(err).To(MatchError(errBoom))
}

func TestTask_ErrBeforeAndAfterCompletion(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	release := make(chan struct{})
	task := async.Go(context.Background(), func(context.Context) error {
		<-release

		return errBoom
	})

	g.Expect(task.Err()).NotTo(HaveOccurred())

	close(release)

	g.Expect(task.Wait(context.Background())).To(MatchError(errBoom))
	g.Expect(task.Err()).To(MatchError(errBoom))
}

func TestTask_GoPassesContext(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	type key struct{}

	ctx := context.WithValue(context.Background(), key{}, "marker")

	var seen any

	task := async.Go(ctx, func(ctx context.Context) error {
		seen = ctx.Value(key{})

		return nil
	})

	g.Expect(task.Wait(context.Background())).To(Succeed())
	g.Expect(seen).To(Equal("marker"))
}

func TestTask_NilIsCompleted(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var task *async.Task

	g.Expect(task.Wait(context.Background())).To(Succeed())
	g.Expect(task.Err()).NotTo(HaveOccurred())
	g.Expect(task.Done()).To(BeClosed())
}

func TestTask_PanicBecomesPanicError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	task := async.Go(context.Background(), func(context.Context) error {
		panic(errBoom)
	})

	g.Eventually(task.Done()).Should(BeClosed())
	g.Expect(task.Wait(context.Background())).To(MatchError(async.ErrPanicked))
}

// unexported variables.
var (
	errBoom = errors.New("boom")
)
