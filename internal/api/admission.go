package api

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrymomot/tenantq/pkg/tenant"
)

const limiterIdleTTL = 10 * time.Minute

// Admission is a per-tenant token bucket placed in front of the usage
// queue, so one noisy tenant cannot grow its backlog without bound.
type Admission struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	limiters  map[string]*tenantLimiter
	lastSweep time.Time
}

type tenantLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewAdmission returns nil when perSecond is not positive, which disables
// admission control.
func NewAdmission(perSecond float64, burst int) *Admission {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &Admission{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
		limiters: make(map[string]*tenantLimiter),
	}
}

// Allow consumes one token from the tenant's bucket.
func (a *Admission) Allow(tenantID string) bool {
	if a == nil {
		return true
	}

	now := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.sweepLocked(now)

	tl, ok := a.limiters[tenantID]
	if !ok {
		tl = &tenantLimiter{limiter: rate.NewLimiter(a.limit, a.burst)}
		a.limiters[tenantID] = tl
	}
	tl.lastSeen = now
	return tl.limiter.AllowN(now, 1)
}

// Tracked returns the number of tenants with a live bucket.
func (a *Admission) Tracked() int {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.limiters)
}

// sweepLocked drops buckets idle for limiterIdleTTL. An idle bucket is full
// again, so recreating it later changes nothing.
func (a *Admission) sweepLocked(now time.Time) {
	if now.Sub(a.lastSweep) < limiterIdleTTL {
		return
	}
	a.lastSweep = now
	for id, tl := range a.limiters {
		if now.Sub(tl.lastSeen) >= limiterIdleTTL {
			delete(a.limiters, id)
		}
	}
}

// Middleware rejects requests over the tenant's rate with 429. It must run
// after tenant.Middleware.
func (a *Admission) Middleware(next http.Handler) http.Handler {
	if a == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := tenant.IDFromContext(r.Context())
		if !a.Allow(id) {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests for this tenant")
			return
		}
		next.ServeHTTP(w, r)
	})
}
