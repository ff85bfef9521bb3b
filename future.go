package sdkgate

import (
	"context"
	"sync"
)

// Future is the read side of an asynchronous execution: Get blocks until
// the operation completed or failed.
type Future[T any] interface {
	Get() (T, error)
	// GetContext is like Get but gives up when ctx is done, leaving the
	// underlying operation running.
	GetContext(ctx context.Context) (T, error)
	// Done is closed once the future resolved, for select-based callers.
	Done() <-chan struct{}
}

// Promise is the write side: exactly one of Complete or Error takes
// effect, every later call is a no-op.
type Promise[T any] interface {
	Complete(T)
	Error(error)
}

// CompletableFuture combines both sides for the code that owns the
// asynchronous operation.
type CompletableFuture[T any] interface {
	Future[T]
	Promise[T]
}

type future[T any] struct {
	done   chan struct{}
	once   sync.Once
	result T
	err    error
}

// NewFuture creates an unresolved completable future.
func NewFuture[T any]() CompletableFuture[T] {
	return &future[T]{done: make(chan struct{})}
}

func (f *future[T]) Done() <-chan struct{} { return f.done }

func (f *future[T]) Get() (T, error) {
	<-f.done
	return f.result, f.err
}

func (f *future[T]) GetContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T
		return zero, NewErrorf(KindTimeout, "await abandoned: %v", ctx.Err())
	}
}

func (f *future[T]) Complete(result T) {
	f.once.Do(func() {
		f.result = result
		close(f.done)
	})
}

func (f *future[T]) Error(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}
