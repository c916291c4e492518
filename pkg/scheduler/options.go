package scheduler

import (
	"log/slog"
	"time"
)

// Option configures a Scheduler.
type Option func(*options)

type options struct {
	checkInterval time.Duration
	location      *time.Location
	now           func() time.Time
	logger        *slog.Logger
}

// WithCheckInterval sets how often due jobs are looked for. Default 30s.
func WithCheckInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.checkInterval = d
		}
	}
}

// WithLocation evaluates calendar schedules in loc. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the scheduler logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
