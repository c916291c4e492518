package keyqueue

import (
	"context"
	"log/slog"
	"sync"
)

// Barrier runs fn exactly once after all work submitted so far for the
// barrier's keys has finished, while holding those keys.
//
// The barrier's keys are the given keys plus every key that has queued or
// running work at the time of the call. A gate entry is appended to each of
// their backlogs; fn starts once every gate is reached, and work submitted to
// any of those keys afterwards waits until fn returns. Keys outside the set
// are not affected, and nil keys are ignored.
//
// fn must not wait for work on one of the barrier's keys, that work cannot
// start before fn returns. Barrier returns fn's error, or an error wrapping
// ErrOperationPanicked if fn panics; the gates are released either way.
func (q *Queue[K]) Barrier(ctx context.Context, keys []K, fn func(context.Context) error) error {
	if fn == nil {
		return ErrNilOperation
	}

	var (
		arrived sync.WaitGroup
		release = make(chan struct{})
	)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}

	targets := make(map[K]struct{}, len(keys)+len(q.keys))
	for k := range q.keys {
		targets[k] = struct{}{}
	}
	for _, k := range keys {
		if validKey(k) {
			targets[k] = struct{}{}
		}
	}

	arrived.Add(len(targets))
	for k := range targets {
		q.pushLocked(k, &entry{run: func() {
			arrived.Done()
			<-release
		}})
	}
	q.mu.Unlock()

	arrived.Wait()
	defer close(release)

	q.logger.DebugContext(ctx, "barrier reached", slog.Int("keys", len(targets)))

	return q.runBarrier(ctx, fn)
}

func (q *Queue[K]) runBarrier(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = q.recovered(ctx, r, slog.String("operation", "barrier"))
		}
	}()
	return fn(ctx)
}
