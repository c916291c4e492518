package keyqueue

import "log/slog"

// Option configures a Queue.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	onWorkerStart func(key any)
	onWorkerStop  func(key any)
}

// WithLogger sets the logger used for recovered panics and worker lifecycle records.
// Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkerHooks registers callbacks invoked when a key's worker starts and
// when it deregisters after draining the backlog. Either callback may be nil.
// Hooks run on the worker goroutine without the queue lock held, so they may
// call back into the queue. They must not block.
func WithWorkerHooks(onStart, onStop func(key any)) Option {
	return func(o *options) {
		o.onWorkerStart = onStart
		o.onWorkerStop = onStop
	}
}
