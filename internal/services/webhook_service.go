// internal/services/webhook_service.go
package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kyc-verification-backend/internal/models"
)

// SignatureHeader carries the hex HMAC-SHA256 digest of the webhook body.
const SignatureHeader = "X-Kyc-Signature"

type WebhookService interface {
	// Dispatch delivers an event to the callback URL. Delivery is best
	// effort: failures are logged, never surfaced to the capture flow.
	Dispatch(ctx context.Context, callbackURL string, event *models.WebhookEvent) error
}

type webhookService struct {
	httpClient    *http.Client
	signingSecret string
}

func NewWebhookService(signingSecret string, timeout time.Duration) WebhookService {
	return &webhookService{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		signingSecret: signingSecret,
	}
}

func (s *webhookService) Dispatch(ctx context.Context, callbackURL string, event *models.WebhookEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", callbackURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(SignatureHeader, Sign(body, s.signingSecret))

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}

	zap.L().Info("webhook delivered",
		zap.String("event", event.Event),
		zap.String("session_id", event.SessionID),
		zap.Int("status", resp.StatusCode))

	return nil
}

// Sign computes the hex HMAC-SHA256 digest consumers use to authenticate
// webhook bodies.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received digest against the body in constant time.
func VerifySignature(body []byte, secret, signature string) bool {
	expected := Sign(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
