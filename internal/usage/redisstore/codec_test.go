package redisstore

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantq/internal/usage"
)

func TestCodec(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rec := &usage.Record{
		TenantID:    "acme",
		Used:        12,
		Limit:       100,
		PeriodStart: start,
		UpdatedAt:   start.Add(90 * time.Minute),
	}

	fields := map[string]string{}
	for k, v := range encode(rec) {
		switch v := v.(type) {
		case int64:
			fields[k] = strconv.FormatInt(v, 10)
		case string:
			fields[k] = v
		}
	}

	got, err := decode("acme", fields)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDecode_Corrupt(t *testing.T) {
	t.Parallel()

	_, err := decode("acme", map[string]string{fieldUsed: "x"})
	assert.ErrorIs(t, err, ErrCorruptRecord)

	_, err = decode("acme", map[string]string{
		fieldUsed: "1", fieldLimit: "2", fieldPeriodStart: "yesterday",
	})
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestKeys(t *testing.T) {
	t.Parallel()

	s := New(nil, WithPrefix("quota"))
	assert.Equal(t, "quota:acme", s.recordKey("acme"))
	assert.Equal(t, "quota:tenants", s.indexKey())

	assert.Equal(t, "usage:tenants", New(nil, WithPrefix("")).indexKey())
}
