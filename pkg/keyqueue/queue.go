package keyqueue

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sync"

	"github.com/dmitrymomot/tenantq/pkg/async"
	"github.com/dmitrymomot/tenantq/pkg/logger"
)

// Queue runs operations sequentially per key and concurrently across keys.
// The zero value is not usable; create queues with New.
type Queue[K comparable] struct {
	mu      sync.Mutex
	keys    map[K]*keyState
	closed  bool
	workers sync.WaitGroup

	logger        *slog.Logger
	onWorkerStart func(key any)
	onWorkerStop  func(key any)
}

// keyState is the registry entry for one key. It exists while the key has
// queued entries or an entry in flight.
type keyState struct {
	backlog []*entry
	active  bool
}

type entry struct {
	run func()
}

// New creates an empty queue.
func New[K comparable](opts ...Option) *Queue[K] {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	return &Queue[K]{
		keys:          make(map[K]*keyState),
		logger:        o.logger,
		onWorkerStart: o.onWorkerStart,
		onWorkerStop:  o.onWorkerStop,
	}
}

// Submit appends op to the backlog of key and returns a future resolved with
// exactly what op returns once it has run.
//
// ctx is handed to op unchanged. The queue never cancels queued or running
// operations; op decides what to do with a done context.
func Submit[K comparable, T any](ctx context.Context, q *Queue[K], key K, op func(context.Context) (T, error)) (*async.Future[T], error) {
	if op == nil {
		return nil, ErrNilOperation
	}

	f := async.NewFuture[T]()
	e := &entry{run: func() {
		f.Resolve(invoke(ctx, q, key, op))
	}}

	if err := q.push(key, e); err != nil {
		return nil, err
	}
	return f, nil
}

// Enqueue submits op for key and waits for its outcome.
// The returned value and error are the ones produced by op, unwrapped.
func Enqueue[K comparable, T any](ctx context.Context, q *Queue[K], key K, op func(context.Context) (T, error)) (T, error) {
	f, err := Submit(ctx, q, key, op)
	if err != nil {
		var zero T
		return zero, err
	}
	return f.Await()
}

// Do is Enqueue for operations that only report an error.
func (q *Queue[K]) Do(ctx context.Context, key K, op func(context.Context) error) error {
	if op == nil {
		return ErrNilOperation
	}
	_, err := Enqueue(ctx, q, key, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Len returns the number of keys that currently have queued or running work.
func (q *Queue[K]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.keys)
}

// Pending returns the number of entries waiting for key, excluding the one in flight.
func (q *Queue[K]) Pending(key K) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if ks, ok := q.keys[key]; ok {
		return len(ks.backlog)
	}
	return 0
}

// Keys returns a snapshot of the keys that currently have queued or running work.
func (q *Queue[K]) Keys() []K {
	q.mu.Lock()
	defer q.mu.Unlock()
	keys := make([]K, 0, len(q.keys))
	for k := range q.keys {
		keys = append(keys, k)
	}
	return keys
}

// Shutdown stops accepting new submissions and waits until every backlog is drained.
// If ctx ends first, Shutdown returns its error and the workers keep draining.
func (q *Queue[K]) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue[K]) push(key K, e *entry) error {
	if !validKey(key) {
		return ErrInvalidKey
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.pushLocked(key, e)
	return nil
}

// pushLocked appends e to the key's backlog, creating the key state and
// starting its worker when needed. The caller must hold q.mu.
func (q *Queue[K]) pushLocked(key K, e *entry) {
	ks, ok := q.keys[key]
	if !ok {
		ks = &keyState{}
		q.keys[key] = ks
	}
	ks.backlog = append(ks.backlog, e)

	if !ks.active {
		ks.active = true
		q.workers.Add(1)
		go q.work(key, ks)
	}
}

// work drains the backlog of one key. It is the only goroutine running
// entries for that key until it deregisters in next.
func (q *Queue[K]) work(key K, ks *keyState) {
	defer q.workers.Done()

	if q.onWorkerStart != nil {
		q.onWorkerStart(key)
	}
	q.logger.Debug("key worker started", logger.Key(key))

	for {
		e, ok := q.next(key, ks)
		if !ok {
			break
		}
		e.run()
	}

	q.logger.Debug("key worker stopped", logger.Key(key))
	if q.onWorkerStop != nil {
		q.onWorkerStop(key)
	}
}

// next pops the head of the backlog. When the backlog is empty it clears the
// active flag and removes the key from the registry in the same critical
// section, so a concurrent push either lands before the check or creates a
// fresh key state with its own worker.
func (q *Queue[K]) next(key K, ks *keyState) (*entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(ks.backlog) == 0 {
		ks.active = false
		delete(q.keys, key)
		return nil, false
	}

	e := ks.backlog[0]
	ks.backlog[0] = nil
	ks.backlog = ks.backlog[1:]
	return e, true
}

// invoke runs op and turns a panic into an error for the caller.
func invoke[K comparable, T any](ctx context.Context, q *Queue[K], key K, op func(context.Context) (T, error)) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			res, err = zero, q.recovered(ctx, r, logger.Key(key))
		}
	}()
	return op(ctx)
}

func (q *Queue[K]) recovered(ctx context.Context, r any, attrs ...slog.Attr) error {
	attrs = append(attrs,
		slog.Any("panic", r),
		slog.String("stack", string(debug.Stack())),
	)
	q.logger.LogAttrs(ctx, slog.LevelError, "operation panicked", attrs...)
	return fmt.Errorf("%w: %v", ErrOperationPanicked, r)
}

// validKey rejects nil keys: a nil interface, pointer or channel. Any other
// comparable value, including the zero value of K, is a valid key.
func validKey[K comparable](key K) bool {
	v := reflect.ValueOf(any(key))
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return !v.IsNil()
	default:
		return true
	}
}
