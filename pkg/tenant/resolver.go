package tenant

import (
	"net/http"
	"strings"
)

// Resolver extracts the tenant identifier from a request.
// It returns an empty string when the request carries no identifier.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// ResolverFunc is an adapter to allow the use of ordinary functions as Resolvers.
type ResolverFunc func(r *http.Request) (string, error)

// Resolve calls the function.
func (f ResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}

// HeaderResolver reads the tenant identifier from a request header.
type HeaderResolver struct {
	HeaderName string
}

// NewHeaderResolver creates a header resolver; an empty name means DefaultHeader.
func NewHeaderResolver(headerName string) *HeaderResolver {
	if headerName == "" {
		headerName = DefaultHeader
	}
	return &HeaderResolver{HeaderName: headerName}
}

// Resolve returns the trimmed header value. Values that are present but not a
// valid identifier yield ErrInvalidIdentifier.
func (r *HeaderResolver) Resolve(req *http.Request) (string, error) {
	value := strings.TrimSpace(req.Header.Get(r.HeaderName))
	if value == "" {
		return "", nil
	}
	if !ValidID(value) {
		return "", ErrInvalidIdentifier
	}
	return value, nil
}
