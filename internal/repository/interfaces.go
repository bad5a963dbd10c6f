// internal/repository/interfaces.go
package repository

import (
	"context"
	"time"

	"kyc-verification-backend/internal/models"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.VerificationSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.VerificationSession, error)
	Update(ctx context.Context, session *models.VerificationSession) error
	ListByTenant(ctx context.Context, tenantID string, limit, skip int) ([]models.VerificationSession, error)
}

type APIKeyRepository interface {
	Create(ctx context.Context, apiKey *models.APIKey) error
	GetActiveByHash(ctx context.Context, keyHash string) (*models.APIKey, error)
	ListByTenant(ctx context.Context, tenantID string) ([]models.APIKey, error)
	RevokeByPrefix(ctx context.Context, tenantID, keyPrefix string) error
	UpdateLastUsed(ctx context.Context, keyHash string) error
}

type IDTypeRepository interface {
	Upsert(ctx context.Context, idType *models.IDType) error
	GetByCode(ctx context.Context, code string) (*models.IDType, error)
	List(ctx context.Context, enabledOnly bool) ([]models.IDType, error)
}

type UsageRepository interface {
	CreateUsage(ctx context.Context, usage *models.ServiceUsage) error
	GetGlobalStats(ctx context.Context, startDate, endDate *time.Time) ([]models.UsageStats, error)
	GetTenantStats(ctx context.Context, startDate, endDate *time.Time) ([]models.TenantUsageStats, error)
	GetTenantUsageHistory(ctx context.Context, tenantID string, limit, skip int) ([]models.ServiceUsage, error)
}
