// Package logger builds the service's *slog.Logger and keeps attribute names
// consistent across packages.
//
// New creates a logger from functional options; NewFromConfig does the same
// from an env-tagged Config (APP_ENV, LOG_LEVEL, LOG_FORMAT). The handler is
// wrapped in LogHandlerDecorator, which runs ContextExtractor callbacks on
// every record so values stored in the context (request id, tenant id) are
// attached automatically.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "tenantq"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor(), tenant.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "usage consumed",
//	    logger.TenantID(id),
//	    logger.Duration(time.Since(start)),
//	)
//
// # Attributes
//
// Helpers such as Error, Key, TenantID and RequestID return an empty
// slog.Attr for empty input, which slog drops, so callers can pass them
// without nil checks:
//
//	log.Info("operation finished", logger.Error(err))
package logger
