package api

type Config struct {
	// AdminToken guards /v1/admin. Empty disables the admin routes.
	AdminToken string `env:"API_ADMIN_TOKEN"`
	// TenantRate is the sustained requests per second allowed per tenant.
	// 0 disables admission control.
	TenantRate   float64 `env:"API_TENANT_RATE" envDefault:"0"`
	TenantBurst  int     `env:"API_TENANT_BURST" envDefault:"20"`
	MaxBodyBytes int64   `env:"API_MAX_BODY_BYTES" envDefault:"65536"`
}
