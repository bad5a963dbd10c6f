// internal/models/webhook.go
package models

import "time"

// Webhook event types
const (
	EventSessionCompleted = "session.completed"
	EventSessionFailed    = "session.failed"
)

// WebhookEvent is the JSON body POSTed to a session's callback URL. The body
// is signed with HMAC-SHA256; the hex digest travels in X-Kyc-Signature.
type WebhookEvent struct {
	Event        string              `json:"event"`
	SessionID    string              `json:"sessionId"`
	TenantID     string              `json:"tenantId"`
	DocumentType string              `json:"documentType"`
	Result       *VerificationResult `json:"result,omitempty"`
	OccurredAt   time.Time           `json:"occurredAt"`
}
