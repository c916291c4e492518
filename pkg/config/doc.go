// Package config loads component configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for parsing tagged structs. Every component of
// the service (HTTP server, storage drivers, usage accounting) declares its
// own Config struct with `env` and `envDefault` tags; config.Load fills it.
//
//	type Config struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Parsed values are cached per struct type for the lifetime of the process.
// Tests that change the environment call ResetCache before loading again.
//
// # Error Handling
//
// Errors can be compared with errors.Is against ErrParsingConfig,
// ErrInvalidConfigType, ErrNilPointer and ErrLoadingEnvFile.
package config
