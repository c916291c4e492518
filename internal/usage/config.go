package usage

import "fmt"

// Config is the environment-driven usage configuration. The period resets
// on ResetDay at ResetHour, in the scheduler's time zone.
type Config struct {
	DefaultLimit int64  `env:"USAGE_DEFAULT_LIMIT" envDefault:"0"`
	LimitsFile   string `env:"USAGE_LIMITS_FILE"`
	ResetDay     int    `env:"USAGE_RESET_DAY" envDefault:"1"`
	ResetHour    int    `env:"USAGE_RESET_HOUR" envDefault:"0"`
}

// Validate checks the ranges the reset schedule and the service accept.
func (c Config) Validate() error {
	switch {
	case c.DefaultLimit < 0:
		return fmt.Errorf("%w: USAGE_DEFAULT_LIMIT %d must not be negative", ErrInvalidConfig, c.DefaultLimit)
	case c.ResetDay < 1 || c.ResetDay > 31:
		return fmt.Errorf("%w: USAGE_RESET_DAY %d out of range [1, 31]", ErrInvalidConfig, c.ResetDay)
	case c.ResetHour < 0 || c.ResetHour > 23:
		return fmt.Errorf("%w: USAGE_RESET_HOUR %d out of range [0, 23]", ErrInvalidConfig, c.ResetHour)
	}
	return nil
}
