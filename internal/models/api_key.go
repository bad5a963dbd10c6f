// internal/models/api_key.go
package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type APIKey struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID   string             `bson:"tenantId" json:"tenantId"`
	KeyName    string             `bson:"keyName" json:"keyName"`
	KeyHash    string             `bson:"keyHash" json:"-"` // Never expose in JSON
	KeyPrefix  string             `bson:"keyPrefix" json:"keyPrefix"` // First 8 chars for identification
	IsActive   bool               `bson:"isActive" json:"isActive"`
	LastUsedAt *time.Time         `bson:"lastUsedAt,omitempty" json:"lastUsedAt,omitempty"`
	UsageCount int64              `bson:"usageCount" json:"usageCount"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
	ExpiresAt  *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

type CreateAPIKeyRequest struct {
	KeyName   string     `json:"keyName" validate:"required,min=1,max=50"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type CreateAPIKeyResponse struct {
	Message   string     `json:"message"`
	APIKey    string     `json:"apiKey"` // Full key returned only once
	KeyName   string     `json:"keyName"`
	KeyPrefix string     `json:"keyPrefix"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type APIKeyListResponse struct {
	Message string   `json:"message"`
	Keys    []APIKey `json:"keys"`
	Total   int      `json:"total"`
}

// Validation methods
func (r *CreateAPIKeyRequest) Validate() error {
	if strings.TrimSpace(r.KeyName) == "" {
		return errors.New("keyName is required")
	}

	r.KeyName = strings.TrimSpace(r.KeyName)

	if len(r.KeyName) > 50 {
		return errors.New("keyName must be 50 characters or less")
	}

	if r.ExpiresAt != nil && r.ExpiresAt.Before(time.Now()) {
		return errors.New("expiresAt must be in the future")
	}

	// Validate expiry date is not too far in the future (max 1 year)
	if r.ExpiresAt != nil && r.ExpiresAt.After(time.Now().AddDate(1, 0, 0)) {
		return errors.New("expiresAt cannot be more than 1 year in the future")
	}

	return nil
}

// Helper methods for APIKey
func (a *APIKey) IsExpired() bool {
	if a.ExpiresAt == nil {
		return false
	}
	return a.ExpiresAt.Before(time.Now())
}

func (a *APIKey) IsValid() bool {
	return a.IsActive && !a.IsExpired()
}

// Sanitize removes sensitive information from APIKey for public responses
func (a *APIKey) Sanitize() APIKey {
	sanitized := *a
	sanitized.KeyHash = "" // Ensure hash is never exposed
	return sanitized
}
