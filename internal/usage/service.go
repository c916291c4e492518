package usage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/tenantq/pkg/async"
	"github.com/dmitrymomot/tenantq/pkg/keyqueue"
	"github.com/dmitrymomot/tenantq/pkg/logger"
	"github.com/dmitrymomot/tenantq/pkg/tenant"
)

// Service meters tenant usage. Every write is a read-modify-write on the
// tenant's record and runs through the keyed queue, so requests for one
// tenant apply in arrival order while different tenants proceed in parallel.
type Service struct {
	store        Store
	queue        *keyqueue.Queue[string]
	archiver     Archiver
	defaultLimit atomic.Int64
	now          func() time.Time
	logger       *slog.Logger
}

// NewService returns a Service writing to store through queue.
func NewService(store Store, queue *keyqueue.Queue[string], opts ...Option) *Service {
	s := &Service{
		store:    store,
		queue:    queue,
		archiver: NopArchiver{},
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("usage"))
	return s
}

// DefaultLimit returns the limit assigned to tenants seen for the first time.
func (s *Service) DefaultLimit() int64 { return s.defaultLimit.Load() }

// Consume adds amount to the tenant's usage. When the limit would be
// exceeded the record is left unchanged and ErrQuotaExceeded is returned.
func (s *Service) Consume(ctx context.Context, tenantID string, amount int64) (Record, error) {
	if err := validTenant(tenantID); err != nil {
		return Record{}, err
	}
	if amount <= 0 {
		return Record{}, ErrInvalidAmount
	}

	return s.update(ctx, tenantID, func(rec *Record) error {
		// Compared by subtraction so a huge amount cannot wrap Used.
		if rec.Limit > 0 && amount > rec.Limit-rec.Used {
			return fmt.Errorf("%w: %d of %d used, %d requested", ErrQuotaExceeded, rec.Used, rec.Limit, amount)
		}
		if rec.Used > math.MaxInt64-amount {
			return fmt.Errorf("%w: %d used, %d requested overflows the counter", ErrQuotaExceeded, rec.Used, amount)
		}
		rec.Used += amount
		return nil
	})
}

// Refund gives amount back to the tenant. Usage never drops below zero.
func (s *Service) Refund(ctx context.Context, tenantID string, amount int64) (Record, error) {
	if err := validTenant(tenantID); err != nil {
		return Record{}, err
	}
	if amount <= 0 {
		return Record{}, ErrInvalidAmount
	}

	return s.update(ctx, tenantID, func(rec *Record) error {
		rec.Used = max(rec.Used-amount, 0)
		return nil
	})
}

// SetLimit changes the tenant's limit. 0 removes it.
func (s *Service) SetLimit(ctx context.Context, tenantID string, limit int64) (Record, error) {
	if err := validTenant(tenantID); err != nil {
		return Record{}, err
	}
	if limit < 0 {
		return Record{}, ErrInvalidLimit
	}

	return s.update(ctx, tenantID, func(rec *Record) error {
		rec.Limit = limit
		return nil
	})
}

// Usage reads the tenant's record without queueing. A tenant without a
// record gets an empty one carrying the default limit; nothing is stored.
func (s *Service) Usage(ctx context.Context, tenantID string) (Record, error) {
	if err := validTenant(tenantID); err != nil {
		return Record{}, err
	}
	rec, err := s.load(ctx, tenantID)
	if err != nil {
		return Record{}, err
	}
	return *rec, nil
}

// ApplyLimits sets the default limit and every listed tenant's limit.
// Tenants are updated concurrently, each through its own queue.
func (s *Service) ApplyLimits(ctx context.Context, l Limits) error {
	if l.DefaultLimit < 0 {
		return ErrInvalidLimit
	}
	s.defaultLimit.Store(l.DefaultLimit)

	type pending struct {
		tenantID string
		result   *async.Future[Record]
	}

	ids := slices.Sorted(maps.Keys(l.Tenants))
	waits := make([]pending, 0, len(ids))
	var errs []error

	for _, id := range ids {
		if err := validTenant(id); err != nil {
			errs = append(errs, fmt.Errorf("tenant %q: %w", id, err))
			continue
		}
		limit := l.Tenants[id]
		if limit < 0 {
			errs = append(errs, fmt.Errorf("tenant %s: %w", id, ErrInvalidLimit))
			continue
		}
		f, err := keyqueue.Submit(ctx, s.queue, id, func(ctx context.Context) (Record, error) {
			return s.apply(ctx, id, func(rec *Record) error {
				rec.Limit = limit
				return nil
			})
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", id, err))
			continue
		}
		waits = append(waits, pending{tenantID: id, result: f})
	}

	for _, w := range waits {
		if _, err := w.result.Await(); err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", w.tenantID, err))
		}
	}

	s.logger.InfoContext(ctx, "applied usage limits",
		slog.Int("tenants", len(ids)),
		slog.Int64("default_limit", l.DefaultLimit),
		slog.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}

// ResetPeriod closes the current period for every stored tenant: their
// records are archived, then Used drops to zero and PeriodStart moves to now.
//
// The reset runs as a queue barrier over those tenants. Writes queued before
// it finish first, writes arriving during it wait until it is done. If the
// archive fails nothing is reset.
func (s *Service) ResetPeriod(ctx context.Context) (int, error) {
	snapshot, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tenants: %w", err)
	}

	ids := make([]string, len(snapshot))
	for i, rec := range snapshot {
		ids[i] = rec.TenantID
	}

	var reset int
	err = s.queue.Barrier(ctx, ids, func(ctx context.Context) error {
		n, err := s.resetHeld(ctx, ids)
		reset = n
		return err
	})
	return reset, err
}

// resetHeld runs with every tenant in ids held by the barrier.
func (s *Service) resetHeld(ctx context.Context, ids []string) (int, error) {
	started := s.now()
	closedAt := started.UTC()

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.store.Get(ctx, id)
		if errors.Is(err, ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("load tenant %s: %w", id, err)
		}
		records = append(records, *rec)
	}

	if err := s.archiver.Archive(ctx, closedAt, records); err != nil {
		return 0, errors.Join(ErrArchiveFailed, err)
	}

	var errs []error
	reset := 0
	for i := range records {
		rec := records[i]
		rec.Used = 0
		rec.PeriodStart = closedAt
		rec.UpdatedAt = closedAt
		if err := s.store.Save(ctx, &rec); err != nil {
			errs = append(errs, fmt.Errorf("reset tenant %s: %w", rec.TenantID, err))
			continue
		}
		reset++
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "usage period reset",
		slog.Int("tenants", reset),
		slog.Int("failed", len(errs)),
		logger.Duration(s.now().Sub(started)),
	)
	return reset, errors.Join(errs...)
}

func (s *Service) update(ctx context.Context, tenantID string, mutate func(*Record) error) (Record, error) {
	return keyqueue.Enqueue(ctx, s.queue, tenantID, func(ctx context.Context) (Record, error) {
		return s.apply(ctx, tenantID, mutate)
	})
}

// apply is the body of every queued write.
func (s *Service) apply(ctx context.Context, tenantID string, mutate func(*Record) error) (Record, error) {
	rec, err := s.load(ctx, tenantID)
	if err != nil {
		return Record{}, err
	}
	if err := mutate(rec); err != nil {
		return Record{}, err
	}

	rec.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("save tenant %s: %w", tenantID, err)
	}
	return *rec, nil
}

func (s *Service) load(ctx context.Context, tenantID string) (*Record, error) {
	rec, err := s.store.Get(ctx, tenantID)
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, ErrRecordNotFound):
		return &Record{
			TenantID:    tenantID,
			Limit:       s.defaultLimit.Load(),
			PeriodStart: s.now().UTC(),
		}, nil
	default:
		return nil, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}
}

func validTenant(id string) error {
	if !tenant.ValidID(id) {
		return ErrInvalidTenant
	}
	return nil
}
