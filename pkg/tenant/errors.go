package tenant

import "errors"

var (
	// ErrInvalidIdentifier is returned when the identifier format is invalid.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrNoTenantInContext is returned when a request reaches a tenant-scoped route without a tenant.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
