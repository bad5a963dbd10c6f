// internal/services/webhook_service_test.go
package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kyc-verification-backend/internal/models"
)

func TestWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"session.completed","sessionId":"abc"}`)
	secret := "whsec_test"

	t.Run("round trip", func(t *testing.T) {
		sig := Sign(body, secret)
		require.NotEmpty(t, sig)
		require.True(t, VerifySignature(body, secret, sig))
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		sig := Sign(body, secret)
		require.False(t, VerifySignature(body, "other", sig))
	})

	t.Run("rejects tampered body", func(t *testing.T) {
		sig := Sign(body, secret)
		require.False(t, VerifySignature([]byte(`{"event":"session.failed"}`), secret, sig))
	})
}

func TestWebhookDispatch(t *testing.T) {
	event := &models.WebhookEvent{
		Event:        models.EventSessionCompleted,
		SessionID:    "sess-1",
		TenantID:     "tenant-1",
		DocumentType: "ethiopian_id",
		Result:       &models.VerificationResult{Verified: true},
		OccurredAt:   time.Now(),
	}

	t.Run("delivers signed payload", func(t *testing.T) {
		var gotSignature string
		var gotBody []byte

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSignature = r.Header.Get(SignatureHeader)
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		service := NewWebhookService("whsec_test", 5*time.Second)
		err := service.Dispatch(context.Background(), server.URL, event)
		require.NoError(t, err)

		require.NotEmpty(t, gotSignature)
		require.True(t, VerifySignature(gotBody, "whsec_test", gotSignature))
		require.Contains(t, string(gotBody), `"session.completed"`)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		service := NewWebhookService("whsec_test", 5*time.Second)
		err := service.Dispatch(context.Background(), server.URL, event)
		require.Error(t, err)
	})

	t.Run("unreachable endpoint is an error", func(t *testing.T) {
		service := NewWebhookService("whsec_test", 500*time.Millisecond)
		err := service.Dispatch(context.Background(), "http://127.0.0.1:1/hook", event)
		require.Error(t, err)
	})
}
