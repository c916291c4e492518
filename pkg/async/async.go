package async

import (
	"context"
	"sync"
	"time"
)

// Future is a single-assignment handle for the result of an asynchronous
// computation. The producer resolves it once with Resolve; any number of
// consumers may wait on it.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// NewFuture returns an unresolved Future.
func NewFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

// Resolve completes the future with a result and an error.
// Only the first call has an effect; it reports whether this call resolved the future.
func (f *Future[U]) Resolve(result U, err error) bool {
	resolved := false
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
		resolved = true
	})
	return resolved
}

// Done returns a channel that is closed once the future is resolved.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// Await waits for the future to be resolved and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for the future or for ctx to end, whichever comes first.
// Giving up on the wait does not stop the computation behind the future.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout waits for the future with a timeout.
// Returns ErrTimeout if the future is still unresolved when the timeout elapses.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete checks if the future has been resolved without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// WaitAll waits for the futures in order and returns their results.
// It stops at the first future that resolved with an error and returns the
// results gathered so far together with that error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
