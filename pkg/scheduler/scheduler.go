package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/tenantq/pkg/logger"
)

// JobFunc is the body of a periodic job.
type JobFunc func(ctx context.Context) error

// Scheduler runs registered in-process jobs when their schedule is due.
// A job never overlaps with itself: a tick that finds it still running
// skips it.
type Scheduler struct {
	mu      sync.Mutex
	jobs    map[string]*job
	started bool
	running sync.WaitGroup

	checkInterval time.Duration
	location      *time.Location
	now           func() time.Time
	logger        *slog.Logger
}

type job struct {
	name     string
	schedule Schedule
	fn       JobFunc
	next     time.Time
	busy     bool
}

// New creates a Scheduler with no jobs.
func New(opts ...Option) *Scheduler {
	o := &options{
		checkInterval: 30 * time.Second,
		location:      time.UTC,
		now:           time.Now,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Scheduler{
		jobs:          make(map[string]*job),
		checkInterval: o.checkInterval,
		location:      o.location,
		now:           o.now,
		logger:        o.logger,
	}
}

// AddJob registers fn under name. Jobs added after Start get their first
// run time computed on the next tick.
func (s *Scheduler) AddJob(name string, schedule Schedule, fn JobFunc) error {
	if name == "" || schedule == nil || fn == nil {
		return ErrInvalidJob
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return ErrJobAlreadyRegistered
	}
	s.jobs[name] = &job{name: name, schedule: schedule, fn: fn}

	s.logger.Info("registered periodic job",
		logger.Job(name),
		slog.String("schedule", schedule.String()),
	)
	return nil
}

// Jobs returns registered job names in sorted order.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NextRun returns when the named job fires next. It is zero before Start.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[name]
	if !ok {
		return time.Time{}, false
	}
	return j.next, true
}

// Start checks for due jobs every check interval until ctx is done, then
// waits for running jobs and returns ctx.Err().
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if len(s.jobs) == 0 {
		s.mu.Unlock()
		return ErrNoJobs
	}
	s.started = true
	s.mu.Unlock()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler shutting down")
			s.running.Wait()
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Run adapts Start for errgroup: cancellation is a clean exit.
func (s *Scheduler) Run(ctx context.Context) func() error {
	return func() error {
		err := s.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.now().In(s.location)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.next.IsZero() {
			j.next = j.schedule.Next(now)
			s.logger.Debug("periodic job scheduled", logger.Job(j.name), slog.Time("next_run", j.next))
			continue
		}
		if now.Before(j.next) {
			continue
		}
		if j.busy {
			s.logger.Warn("periodic job still running, skipping", logger.Job(j.name))
			j.next = j.schedule.Next(now)
			continue
		}

		j.busy = true
		j.next = j.schedule.Next(now)
		s.running.Add(1)
		go s.execute(ctx, j)
	}
}

func (s *Scheduler) execute(ctx context.Context, j *job) {
	defer s.running.Done()
	defer func() {
		s.mu.Lock()
		j.busy = false
		s.mu.Unlock()
	}()

	start := s.now()
	err := s.call(ctx, j)
	attrs := []slog.Attr{logger.Job(j.name), logger.Duration(s.now().Sub(start))}

	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "periodic job failed", append(attrs, logger.Error(err))...)
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "periodic job completed", attrs...)
}

func (s *Scheduler) call(ctx context.Context, j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "periodic job panicked",
				logger.Job(j.name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = errors.New("scheduler: job panicked")
		}
	}()
	return j.fn(ctx)
}
