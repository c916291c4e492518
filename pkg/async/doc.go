// Package async provides a generic, single-assignment completion handle for
// results produced on another goroutine.
//
// A Future is created unresolved with NewFuture and completed exactly once by
// its producer with Resolve. Consumers wait with Await, bound the wait with
// AwaitContext or AwaitWithTimeout, or poll with IsComplete. Giving up on a
// wait never affects the producer: the computation still runs and the future
// is still resolved.
//
// # Usage
//
//	f := async.NewFuture[string]()
//
//	go func() {
//	    v, err := compute()
//	    f.Resolve(v, err)
//	}()
//
//	res, err := f.Await()
//
// WaitAll collects the results of several futures in order.
//
// # Error Handling
//
// Futures carry whatever error the producer resolved them with. The only
// error introduced by the package is ErrTimeout from AwaitWithTimeout;
// AwaitContext returns the context error.
package async
