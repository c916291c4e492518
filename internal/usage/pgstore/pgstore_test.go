package pgstore_test

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantq/internal/usage"
	"github.com/dmitrymomot/tenantq/internal/usage/pgstore"
	"github.com/dmitrymomot/tenantq/pkg/pg"
)

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(pgstore.Migrations, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "00001_create_tenant_usage.sql")

	body, err := fs.ReadFile(pgstore.Migrations, "00001_create_tenant_usage.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "tenant_usage")
}

// Runs against a live database when TEST_PG_URL is set.
func TestStore_Postgres(t *testing.T) {
	url := os.Getenv("TEST_PG_URL")
	if url == "" {
		t.Skip("TEST_PG_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{ConnectionString: url, RetryAttempts: 1, MigrationsTable: "schema_migrations"}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, pgstore.Migrations, cfg, slog.New(slog.NewTextHandler(io.Discard, nil))))
	_, err = pool.Exec(ctx, `TRUNCATE tenant_usage`)
	require.NoError(t, err)

	s := pgstore.New(pool)

	_, err = s.Get(ctx, "acme")
	assert.ErrorIs(t, err, usage.ErrRecordNotFound)

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := &usage.Record{TenantID: "acme", Used: 3, Limit: 10, PeriodStart: now, UpdatedAt: now}
	require.NoError(t, s.Save(ctx, rec))

	rec.Used = 4
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Save(ctx, &usage.Record{TenantID: "globex", PeriodStart: now, UpdatedAt: now}))

	got, err := s.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, *rec, *got)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "acme", list[0].TenantID)
	assert.Equal(t, "globex", list[1].TenantID)
}
