// internal/middleware/capture_token_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"kyc-verification-backend/internal/services"
)

func newCaptureTestRouter(store services.CaptureTokenStore) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(CaptureTokenAuth(store))
		r.Post("/sessions/{sessionId}/id-scan", func(w http.ResponseWriter, r *http.Request) {
			sessionID, _ := GetSessionIDFromContext(r.Context())
			w.Write([]byte(sessionID))
		})
	})
	return r
}

func TestCaptureTokenAuth(t *testing.T) {
	store := services.NewInMemoryCaptureTokenStore()
	require.NoError(t, store.Store(context.Background(), "tok-1", "sess-1"))

	router := newCaptureTestRouter(store)

	t.Run("valid token for its own session", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/sessions/sess-1/id-scan", nil)
		req.Header.Set("X-Capture-Token", "tok-1")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "sess-1", rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/sessions/sess-1/id-scan", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/sessions/sess-1/id-scan", nil)
		req.Header.Set("X-Capture-Token", "bogus")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token cannot touch another session", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/sessions/sess-2/id-scan", nil)
		req.Header.Set("X-Capture-Token", "tok-1")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
