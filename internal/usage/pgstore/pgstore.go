// Package pgstore keeps usage records in the PostgreSQL table tenant_usage.
// The schema ships as embedded goose migrations, see Migrations.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/tenantq/internal/usage"
	"github.com/dmitrymomot/tenantq/pkg/pg"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations holds the goose migrations at its root, ready for pg.Migrate.
var Migrations = mustSub(migrationFiles, "migrations")

// DB is the subset of *pgxpool.Pool used by Store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store keeps one row per tenant in tenant_usage.
type Store struct {
	db DB
}

var _ usage.Store = (*Store)(nil)

// New creates a Store on db, usually a *pgxpool.Pool. The schema comes
// from Migrations.
func New(db DB) *Store {
	return &Store{db: db}
}

type row struct {
	TenantID    string    `db:"tenant_id"`
	Used        int64     `db:"used"`
	UsageLimit  int64     `db:"usage_limit"`
	PeriodStart time.Time `db:"period_start"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r row) record() usage.Record {
	return usage.Record{
		TenantID:    r.TenantID,
		Used:        r.Used,
		Limit:       r.UsageLimit,
		PeriodStart: r.PeriodStart.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

const (
	selectColumns = `SELECT tenant_id, used, usage_limit, period_start, updated_at FROM tenant_usage`

	getQuery  = selectColumns + ` WHERE tenant_id = $1`
	listQuery = selectColumns + ` ORDER BY tenant_id`

	upsertQuery = `
INSERT INTO tenant_usage (tenant_id, used, usage_limit, period_start, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (tenant_id) DO UPDATE SET
    used = EXCLUDED.used,
    usage_limit = EXCLUDED.usage_limit,
    period_start = EXCLUDED.period_start,
    updated_at = EXCLUDED.updated_at`
)

func (s *Store) Get(ctx context.Context, tenantID string) (*usage.Record, error) {
	rows, err := s.db.Query(ctx, getQuery, tenantID)
	if err != nil {
		return nil, fmt.Errorf("pgstore: get %s: %w", tenantID, err)
	}
	r, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[row])
	if pg.IsNotFoundError(err) {
		return nil, usage.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pgstore: get %s: %w", tenantID, err)
	}
	rec := r.record()
	return &rec, nil
}

// Save upserts the record by tenant id.
func (s *Store) Save(ctx context.Context, rec *usage.Record) error {
	_, err := s.db.Exec(ctx, upsertQuery,
		rec.TenantID, rec.Used, rec.Limit, rec.PeriodStart, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("pgstore: save %s: %w", rec.TenantID, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]usage.Record, error) {
	rows, err := s.db.Query(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list: %w", err)
	}
	rs, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, fmt.Errorf("pgstore: list: %w", err)
	}

	out := make([]usage.Record, len(rs))
	for i, r := range rs {
		out[i] = r.record()
	}
	return out, nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(errors.Join(errors.New("pgstore: embedded migrations"), err))
	}
	return sub
}
