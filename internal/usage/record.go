package usage

import (
	"context"
	"time"
)

// Record is the metered usage of one tenant for the current period.
// Limit 0 means unlimited.
type Record struct {
	TenantID    string    `json:"tenant_id"`
	Used        int64     `json:"used"`
	Limit       int64     `json:"limit"`
	PeriodStart time.Time `json:"period_start"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Remaining returns the units left in the period, or -1 when unlimited.
func (r Record) Remaining() int64 {
	if r.Limit == 0 {
		return -1
	}
	return max(r.Limit-r.Used, 0)
}

// Store persists usage records. Implementations need no locking of their
// own around read-modify-write cycles: the Service serializes writes per
// tenant.
type Store interface {
	// Get returns ErrRecordNotFound when the tenant has no record.
	Get(ctx context.Context, tenantID string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	// List returns every record ordered by tenant id.
	List(ctx context.Context) ([]Record, error)
}

// Archiver keeps a copy of the records of a period that is being closed.
type Archiver interface {
	Archive(ctx context.Context, closedAt time.Time, records []Record) error
}

// NopArchiver discards snapshots.
type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, time.Time, []Record) error { return nil }
