package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/tenantq/pkg/httpserver"
	"github.com/dmitrymomot/tenantq/pkg/requestid"
	"github.com/dmitrymomot/tenantq/pkg/tenant"
)

// Deps are the collaborators of the HTTP API.
type Deps struct {
	Usage  UsageService
	Checks []httpserver.Check
	Logger *slog.Logger
}

// NewRouter mounts the health and usage routes:
//
//	GET  /health/live
//	GET  /health/ready
//	GET  /v1/usage
//	POST /v1/usage/consume   {"amount": n}
//	POST /v1/usage/refund    {"amount": n}
//	PUT  /v1/usage/limit     {"limit": n}
//	POST /v1/admin/reset     X-Admin-Token
//
// Usage routes take the tenant from the X-Tenant-ID header.
func NewRouter(cfg Config, deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 64 << 10
	}

	h := &handlers{svc: deps.Usage, logger: log, maxBodyBytes: maxBody}
	admission := NewAdmission(cfg.TenantRate, cfg.TenantBurst)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", httpserver.LivenessHandler())
		r.Get("/ready", httpserver.ReadinessHandler(log, deps.Checks...))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(requestLogger(log))

		r.Route("/usage", func(r chi.Router) {
			r.Use(tenant.Middleware(
				tenant.NewHeaderResolver(tenant.DefaultHeader),
				tenant.WithRequired(true),
				tenant.WithErrorHandler(tenantError),
			))
			r.Use(admission.Middleware)

			r.Get("/", h.getUsage)
			r.Post("/consume", h.consume)
			r.Post("/refund", h.refund)
			r.Put("/limit", h.setLimit)
		})

		r.With(adminOnly(cfg.AdminToken)).Post("/admin/reset", h.reset)
	})

	return r
}
