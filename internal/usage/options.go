package usage

import (
	"log/slog"
	"time"
)

// Option configures a Service.
type Option func(*Service)

// WithArchiver sets where ResetPeriod stores the closing period.
// Default NopArchiver. Nil is ignored.
func WithArchiver(a Archiver) Option {
	return func(s *Service) {
		if a != nil {
			s.archiver = a
		}
	}
}

// WithDefaultLimit sets the limit given to tenants without a record.
func WithDefaultLimit(limit int64) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.defaultLimit.Store(limit)
		}
	}
}

// WithClock replaces time.Now for timestamps and period boundaries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
