// Package requestid assigns every HTTP request an identifier for log correlation.
//
// Middleware keeps a well-formed incoming X-Request-ID (up to 128 characters
// of letters, digits, '_' and '-') and otherwise generates a UUIDv7. The id is
// written to the response header and stored in the request context, where
// FromContext reads it and LoggerExtractor adds it to log records.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
package requestid
