package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantq/internal/usage"
	"github.com/dmitrymomot/tenantq/internal/usage/memstore"
)

func TestStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memstore.New()

	_, err := s.Get(ctx, "acme")
	assert.ErrorIs(t, err, usage.ErrRecordNotFound)

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rec := &usage.Record{TenantID: "acme", Used: 5, Limit: 10, PeriodStart: now, UpdatedAt: now}
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Save(ctx, &usage.Record{TenantID: "globex", Used: 1}))

	rec.Used = 99 // stored value is a copy
	got, err := s.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Used)
	assert.Equal(t, now, got.PeriodStart)

	got.Used = 42 // returned value is a copy
	again, err := s.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, int64(5), again.Used)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "acme", list[0].TenantID)
	assert.Equal(t, "globex", list[1].TenantID)

	assert.NoError(t, s.Ping(ctx))
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := memstore.New()
	_, err := s.Get(ctx, "acme")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Save(ctx, &usage.Record{TenantID: "acme"}), context.Canceled)
	_, err = s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
