package tenant_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantq/pkg/tenant"
)

func echoTenant(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := tenant.IDFromContext(r.Context())
		if !ok {
			id = "none"
		}
		_, _ = w.Write([]byte(id))
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("adds tenant to context", func(t *testing.T) {
		t.Parallel()

		h := tenant.Middleware(tenant.NewHeaderResolver(""))(echoTenant(t))

		req := httptest.NewRequest(http.MethodGet, "/v1/usage", nil)
		req.Header.Set(tenant.DefaultHeader, " acme ")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "acme", w.Body.String())
	})

	t.Run("continues without tenant when optional", func(t *testing.T) {
		t.Parallel()

		h := tenant.Middleware(tenant.NewHeaderResolver(""))(echoTenant(t))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "none", w.Body.String())
	})

	t.Run("rejects missing tenant when required", func(t *testing.T) {
		t.Parallel()

		h := tenant.Middleware(tenant.NewHeaderResolver(""), tenant.WithRequired(true))(echoTenant(t))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects invalid identifier", func(t *testing.T) {
		t.Parallel()

		h := tenant.Middleware(tenant.NewHeaderResolver(""))(echoTenant(t))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(tenant.DefaultHeader, "../etc/passwd")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("skips configured paths", func(t *testing.T) {
		t.Parallel()

		h := tenant.Middleware(
			tenant.NewHeaderResolver(""),
			tenant.WithRequired(true),
			tenant.WithSkipPaths("/health"),
		)(echoTenant(t))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("custom error handler and resolver error", func(t *testing.T) {
		t.Parallel()

		resolveErr := errors.New("backend down")
		var got error
		h := tenant.Middleware(
			tenant.ResolverFunc(func(*http.Request) (string, error) { return "", resolveErr }),
			tenant.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
				got = err
				w.WriteHeader(http.StatusTeapot)
			}),
		)(echoTenant(t))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Same(t, resolveErr, got)
	})

	t.Run("default handler maps unknown errors to 500", func(t *testing.T) {
		t.Parallel()

		h := tenant.Middleware(tenant.ResolverFunc(func(*http.Request) (string, error) {
			return "", errors.New("boom")
		}))(echoTenant(t))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	h := tenant.RequireTenant(nil)(echoTenant(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(tenant.WithID(req.Context(), "acme"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", w.Body.String())
}

func TestValidID(t *testing.T) {
	t.Parallel()

	valid := []string{"acme", "a", "tenant_1", "org-42.eu", "0abc", strings.Repeat("x", 64)}
	for _, id := range valid {
		assert.True(t, tenant.ValidID(id), id)
	}

	invalid := []string{"", "-acme", ".acme", "ac me", "acme/1", strings.Repeat("x", 65)}
	for _, id := range invalid {
		assert.False(t, tenant.ValidID(id), id)
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := tenant.IDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = tenant.IDFromContext(tenant.WithID(context.Background(), ""))
	assert.False(t, ok)

	ctx := tenant.WithID(context.Background(), "acme")
	id, ok := tenant.IDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "acme", id)

	attr, ok := tenant.LoggerExtractor()(ctx)
	require.True(t, ok)
	assert.Equal(t, "tenant_id", attr.Key)
	assert.Equal(t, "acme", attr.Value.String())

	_, ok = tenant.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}
