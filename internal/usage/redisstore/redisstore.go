// Package redisstore keeps usage records in Redis.
//
// Each tenant is a hash at "{prefix}:{tenant}" with the fields used, limit,
// period_start and updated_at. The set "{prefix}:tenants" indexes them for
// List. Save writes both in one MULTI/EXEC transaction.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenantq/internal/usage"
)

const DefaultPrefix = "usage"

const (
	fieldUsed        = "used"
	fieldLimit       = "limit"
	fieldPeriodStart = "period_start"
	fieldUpdatedAt   = "updated_at"
)

// ErrCorruptRecord is returned when a stored hash field cannot be decoded.
var ErrCorruptRecord = errors.New("redisstore: corrupt record")

// Store keeps one hash per tenant and a set indexing the known tenants.
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ usage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces every key. Default "usage".
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a Store on client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, tenantID string) (*usage.Record, error) {
	fields, err := s.client.HGetAll(ctx, s.recordKey(tenantID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %s: %w", tenantID, err)
	}
	if len(fields) == 0 {
		return nil, usage.ErrRecordNotFound
	}
	return decode(tenantID, fields)
}

func (s *Store) Save(ctx context.Context, rec *usage.Record) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.recordKey(rec.TenantID), encode(rec))
		p.SAdd(ctx, s.indexKey(), rec.TenantID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: save %s: %w", rec.TenantID, err)
	}
	return nil
}

// List reads every indexed tenant in one pipeline, ordered by tenant id.
func (s *Store) List(ctx context.Context) ([]usage.Record, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: list: %w", err)
	}
	slices.Sort(ids)

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, s.recordKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redisstore: list: %w", err)
	}

	out := make([]usage.Record, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue // index entry without hash, e.g. key evicted
		}
		rec, err := decode(ids[i], fields)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *Store) recordKey(tenantID string) string { return s.prefix + ":" + tenantID }
func (s *Store) indexKey() string                 { return s.prefix + ":tenants" }

func encode(rec *usage.Record) map[string]any {
	return map[string]any{
		fieldUsed:        rec.Used,
		fieldLimit:       rec.Limit,
		fieldPeriodStart: rec.PeriodStart.UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt:   rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decode(tenantID string, fields map[string]string) (*usage.Record, error) {
	rec := &usage.Record{TenantID: tenantID}

	var err error
	if rec.Used, err = strconv.ParseInt(fields[fieldUsed], 10, 64); err != nil {
		return nil, corrupt(tenantID, fieldUsed, err)
	}
	if rec.Limit, err = strconv.ParseInt(fields[fieldLimit], 10, 64); err != nil {
		return nil, corrupt(tenantID, fieldLimit, err)
	}
	if rec.PeriodStart, err = time.Parse(time.RFC3339Nano, fields[fieldPeriodStart]); err != nil {
		return nil, corrupt(tenantID, fieldPeriodStart, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt]); err != nil {
		return nil, corrupt(tenantID, fieldUpdatedAt, err)
	}
	return rec, nil
}

func corrupt(tenantID, field string, err error) error {
	return fmt.Errorf("%w: tenant %s field %s: %w", ErrCorruptRecord, tenantID, field, err)
}
