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

	"github.com/dmitrymomot/sessiongate/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	var captured string
	handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = requestid.FromContext(r.Context())
	}))

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		require.NotEmpty(t, captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err)
		assert.Equal(t, captured, w.Header().Get(requestid.Header))
	})

	t.Run("keeps a valid inbound id", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(requestid.Header, "trace-abc_123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, "trace-abc_123", captured)
		assert.Equal(t, "trace-abc_123", w.Header().Get(requestid.Header))
	})

	t.Run("replaces an invalid inbound id", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(requestid.Header, "bad id with spaces")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.NotEqual(t, "bad id with spaces", captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err)
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(requestid.Header, strings.Repeat("a", 200))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Len(t, captured, 36)
	})
}

func TestFromContext(t *testing.T) {
	assert.Empty(t, requestid.FromContext(context.Background()))

	ctx := requestid.WithContext(context.Background(), "id-1")
	assert.Equal(t, "id-1", requestid.FromContext(ctx))
}
