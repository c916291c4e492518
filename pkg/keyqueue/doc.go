// Package keyqueue serializes asynchronous operations per key while running
// operations for different keys in parallel.
//
// Every key owns a FIFO backlog and at most one worker goroutine. The first
// submission for an idle key registers the key and starts its worker; the
// worker runs entries one at a time in submission order and removes the key
// from the registry once the backlog is empty. Nothing is kept for idle keys,
// and the next submission starts from scratch.
//
// # Usage
//
//	q := keyqueue.New[string](keyqueue.WithLogger(log))
//
//	// Runs after any earlier work for "tenant-a" and before any later work.
//	balance, err := keyqueue.Enqueue(ctx, q, "tenant-a", func(ctx context.Context) (int64, error) {
//	    acc, err := store.Get(ctx, "tenant-a")
//	    if err != nil {
//	        return 0, err
//	    }
//	    acc.Balance += 10
//	    return acc.Balance, store.Save(ctx, acc)
//	})
//
// Submit returns the *async.Future instead of waiting. Do covers operations
// that only return an error.
//
// # Barrier
//
// Barrier runs a function once every key it covers has finished the work
// queued before the call, and holds those keys until the function returns.
// It gives periodic jobs mutual exclusion against ordinary per-key traffic:
//
//	err := q.Barrier(ctx, knownTenants, func(ctx context.Context) error {
//	    return store.ResetAll(ctx)
//	})
//
// # Error Handling
//
// A failing operation only affects its own caller: Enqueue returns the
// operation's value and error untouched, and the key's worker moves on to
// the next entry. A panicking operation is recovered and logged, and its
// caller receives an error wrapping ErrOperationPanicked.
//
// The queue itself fails a submission only for ErrInvalidKey (a nil
// interface, pointer or channel key), ErrNilOperation, and ErrQueueClosed
// after Shutdown. Zero values such as 0 or "" are ordinary keys.
//
// # Concurrency
//
// The number of concurrently running keys is not bounded. Callers exposed to
// an unbounded key space should limit admission before submitting. There is
// no cancellation or timeout: once submitted, an entry runs to completion.
package keyqueue
