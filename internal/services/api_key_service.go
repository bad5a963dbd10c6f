// internal/services/api_key_service.go
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"kyc-verification-backend/internal/models"
	"kyc-verification-backend/internal/repository"
	apperrors "kyc-verification-backend/pkg/errors"
)

type APIKeyService interface {
	CreateAPIKey(ctx context.Context, tenantID string, req *models.CreateAPIKeyRequest) (*models.CreateAPIKeyResponse, error)
	ValidateAPIKey(ctx context.Context, apiKey string) (*models.APIKey, error)
	ListAPIKeys(ctx context.Context, tenantID string) (*models.APIKeyListResponse, error)
	RevokeAPIKey(ctx context.Context, tenantID, keyPrefix string) error
}

type apiKeyService struct {
	apiKeyRepo repository.APIKeyRepository
}

func NewAPIKeyService(apiKeyRepo repository.APIKeyRepository) APIKeyService {
	return &apiKeyService{
		apiKeyRepo: apiKeyRepo,
	}
}

func (s *apiKeyService) CreateAPIKey(ctx context.Context, tenantID string, req *models.CreateAPIKeyRequest) (*models.CreateAPIKeyResponse, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400, "validation failed", err.Error())
	}

	apiKey, keyHash, keyPrefix, err := s.generateAPIKey()
	if err != nil {
		return nil, apperrors.NewAppError(
			apperrors.ErrInternalServer,
			500,
			"failed to generate API key",
			err.Error(),
		)
	}

	now := time.Now()
	apiKeyRecord := &models.APIKey{
		TenantID:   tenantID,
		KeyName:    req.KeyName,
		KeyHash:    keyHash,
		KeyPrefix:  keyPrefix,
		IsActive:   true,
		UsageCount: 0,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  req.ExpiresAt,
	}

	if err := s.apiKeyRepo.Create(ctx, apiKeyRecord); err != nil {
		return nil, err
	}

	return &models.CreateAPIKeyResponse{
		Message:   "API key created successfully",
		APIKey:    apiKey, // Return full key only once
		KeyName:   req.KeyName,
		KeyPrefix: keyPrefix,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: now,
	}, nil
}

func (s *apiKeyService) ValidateAPIKey(ctx context.Context, apiKey string) (*models.APIKey, error) {
	keyHash := s.hashAPIKey(apiKey)

	apiKeyRecord, err := s.apiKeyRepo.GetActiveByHash(ctx, keyHash)
	if err != nil {
		return nil, err
	}

	// Update last used timestamp asynchronously
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.apiKeyRepo.UpdateLastUsed(bgCtx, keyHash)
	}()

	return apiKeyRecord, nil
}

func (s *apiKeyService) ListAPIKeys(ctx context.Context, tenantID string) (*models.APIKeyListResponse, error) {
	keys, err := s.apiKeyRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	sanitized := make([]models.APIKey, 0, len(keys))
	for _, key := range keys {
		sanitized = append(sanitized, key.Sanitize())
	}

	return &models.APIKeyListResponse{
		Message: "API keys retrieved successfully",
		Keys:    sanitized,
		Total:   len(sanitized),
	}, nil
}

func (s *apiKeyService) RevokeAPIKey(ctx context.Context, tenantID, keyPrefix string) error {
	return s.apiKeyRepo.RevokeByPrefix(ctx, tenantID, keyPrefix)
}

// generateAPIKey creates a new API key with format: ak_live_<64_hex_chars>
func (s *apiKeyService) generateAPIKey() (apiKey, keyHash, keyPrefix string, err error) {
	// Generate 32 random bytes
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", "", err
	}

	randomHex := hex.EncodeToString(randomBytes)

	apiKey = fmt.Sprintf("ak_live_%s", randomHex)

	// Hash the API key for storage
	keyHash = s.hashAPIKey(apiKey)

	// Prefix for identification (first 8 hex chars after ak_live_)
	keyPrefix = fmt.Sprintf("ak_live_%s", randomHex[:8])

	return apiKey, keyHash, keyPrefix, nil
}

// hashAPIKey creates a SHA-256 hash of the API key
func (s *apiKeyService) hashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(hash[:])
}
