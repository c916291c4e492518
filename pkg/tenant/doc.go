// Package tenant carries the tenant identifier of a request.
//
// A Resolver pulls the identifier out of the request (HeaderResolver reads
// X-Tenant-ID by default), Middleware validates it and stores it in the
// request context, and handlers read it back with IDFromContext. The
// identifier is the serialization key for per-tenant work, so it is
// validated up front with ValidID.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Use(tenant.Middleware(tenant.NewHeaderResolver(""), tenant.WithRequired(true)))
//
//	r.Get("/v1/usage", func(w http.ResponseWriter, r *http.Request) {
//	    id, _ := tenant.IDFromContext(r.Context())
//	    ...
//	})
//
// LoggerExtractor plugs into logger.WithContextExtractors so every record
// logged with the request context carries tenant_id.
//
// # Errors
//
// ErrInvalidIdentifier maps to 400 in the default error handler, as does
// ErrNoTenantInContext when a tenant is required but missing.
package tenant
