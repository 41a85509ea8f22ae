package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shestoi/productcatalog/internal/requestctx"
)

func TestWithRequestID(t *testing.T) {
	t.Run("keeps id from header", func(t *testing.T) {
		// Arrange
		var seen string
		handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = requestctx.RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set("X-Request-Id", "client-supplied-id")
		rec := httptest.NewRecorder()

		// Act
		handler.ServeHTTP(rec, req)

		// Assert
		require.Equal(t, "client-supplied-id", seen)
		require.Equal(t, "client-supplied-id", rec.Header().Get("X-Request-Id"))
	})

	t.Run("generates uuid when header is absent", func(t *testing.T) {
		var seen string
		handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = requestctx.RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		require.NoError(t, err, "generated request id must be a valid uuid")
		require.Equal(t, seen, rec.Header().Get("X-Request-Id"))
	})
}
