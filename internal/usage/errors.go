package usage

import "errors"

var (
	// ErrRecordNotFound is returned by a Store when the tenant has no record.
	ErrRecordNotFound = errors.New("usage: record not found")

	// ErrInvalidTenant is returned for tenant ids rejected by tenant.ValidID.
	ErrInvalidTenant = errors.New("usage: invalid tenant id")

	// ErrInvalidAmount is returned when a consume or refund amount is not positive.
	ErrInvalidAmount = errors.New("usage: amount must be positive")

	// ErrInvalidLimit is returned for negative limits.
	ErrInvalidLimit = errors.New("usage: limit must not be negative")

	// ErrQuotaExceeded is returned when a consume would pass the tenant's
	// limit or overflow its counter. The record is left unchanged.
	ErrQuotaExceeded = errors.New("usage: quota exceeded")

	// ErrInvalidLimits is returned when a limits file cannot be parsed or
	// names an invalid tenant or a negative limit.
	ErrInvalidLimits = errors.New("usage: invalid limits file")

	// ErrArchiveFailed is returned by ResetPeriod when the closing period
	// could not be archived. No record is reset in that case.
	ErrArchiveFailed = errors.New("usage: archiving period failed")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("usage: invalid config")
)
