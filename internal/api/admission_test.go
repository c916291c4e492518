package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantq/pkg/tenant"
)

func TestAdmission_Disabled(t *testing.T) {
	t.Parallel()

	a := NewAdmission(0, 10)
	assert.Nil(t, a)
	for range 100 {
		assert.True(t, a.Allow("acme"))
	}
	assert.Zero(t, a.Tracked())
}

func TestAdmission_PerTenantBuckets(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewAdmission(1, 2)
	a.now = func() time.Time { return now }

	assert.True(t, a.Allow("acme"))
	assert.True(t, a.Allow("acme"))
	assert.False(t, a.Allow("acme"), "burst exhausted")

	assert.True(t, a.Allow("globex"), "other tenant has its own bucket")

	now = now.Add(time.Second)
	assert.True(t, a.Allow("acme"), "bucket refills")
	assert.Equal(t, 2, a.Tracked())
}

func TestAdmission_EvictsIdleTenants(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewAdmission(5, 5)
	a.now = func() time.Time { return now }

	a.Allow("acme")
	a.Allow("globex")
	require.Equal(t, 2, a.Tracked())

	now = now.Add(limiterIdleTTL + time.Second)
	a.Allow("initech")
	assert.Equal(t, 1, a.Tracked())
}

func TestAdmission_Middleware(t *testing.T) {
	t.Parallel()

	a := NewAdmission(1, 1)
	a.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(tenant.WithID(req.Context(), "acme"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}
