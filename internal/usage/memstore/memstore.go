// Package memstore keeps usage records in process memory.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/dmitrymomot/tenantq/internal/usage"
)

// Store is a usage.Store backed by a map. Records are copied in and out.
type Store struct {
	mu      sync.RWMutex
	records map[string]usage.Record
}

var _ usage.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[string]usage.Record)}
}

func (s *Store) Get(ctx context.Context, tenantID string) (*usage.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[tenantID]
	if !ok {
		return nil, usage.ErrRecordNotFound
	}
	return &rec, nil
}

func (s *Store) Save(ctx context.Context, rec *usage.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.TenantID] = *rec
	return nil
}

func (s *Store) List(ctx context.Context) ([]usage.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]usage.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b usage.Record) int { return cmp.Compare(a.TenantID, b.TenantID) })
	return out, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
