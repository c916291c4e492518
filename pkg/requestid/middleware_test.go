package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantq/pkg/requestid"
)

func captureID(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = requestid.FromContext(r.Context())
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("keeps valid incoming id", func(t *testing.T) {
		t.Parallel()

		var got string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "abc-123_x")
		w := httptest.NewRecorder()
		requestid.Middleware(captureID(&got)).ServeHTTP(w, req)

		assert.Equal(t, "abc-123_x", got)
		assert.Equal(t, "abc-123_x", w.Header().Get(requestid.Header))
	})

	t.Run("generates id when missing", func(t *testing.T) {
		t.Parallel()

		var got string
		w := httptest.NewRecorder()
		requestid.Middleware(captureID(&got)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		parsed, err := uuid.Parse(got)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
		assert.Equal(t, got, w.Header().Get(requestid.Header))
	})

	t.Run("replaces invalid id", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []string{"with space", "semi;colon", strings.Repeat("a", 129)} {
			var got string
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(requestid.Header, bad)
			requestid.Middleware(captureID(&got)).ServeHTTP(httptest.NewRecorder(), req)

			assert.NotEqual(t, bad, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		}
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	_, ok := requestid.LoggerExtractor()(context.Background())
	assert.False(t, ok)

	attr, ok := requestid.LoggerExtractor()(requestid.WithContext(context.Background(), "req-1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-1", attr.Value.String())

	assert.Empty(t, requestid.FromContext(nil)) //nolint:staticcheck // nil context is handled
}
