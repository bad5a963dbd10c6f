// internal/services/usage_service.go
package services

import (
	"context"
	"time"

	"kyc-verification-backend/internal/models"
	"kyc-verification-backend/internal/repository"
)

type UsageService interface {
	TrackUsage(ctx context.Context, usage *models.ServiceUsage) error
	GetGlobalStats(ctx context.Context, startDate, endDate *time.Time) ([]models.UsageStats, error)
	GetTenantStats(ctx context.Context, startDate, endDate *time.Time) ([]models.TenantUsageStats, error)
	GetTenantUsageHistory(ctx context.Context, tenantID string, limit, skip int) ([]models.ServiceUsage, error)
}

type usageService struct {
	usageRepo repository.UsageRepository
}

func NewUsageService(usageRepo repository.UsageRepository) UsageService {
	return &usageService{
		usageRepo: usageRepo,
	}
}

func (s *usageService) TrackUsage(ctx context.Context, usage *models.ServiceUsage) error {
	return s.usageRepo.CreateUsage(ctx, usage)
}

func (s *usageService) GetGlobalStats(ctx context.Context, startDate, endDate *time.Time) ([]models.UsageStats, error) {
	return s.usageRepo.GetGlobalStats(ctx, startDate, endDate)
}

func (s *usageService) GetTenantStats(ctx context.Context, startDate, endDate *time.Time) ([]models.TenantUsageStats, error) {
	return s.usageRepo.GetTenantStats(ctx, startDate, endDate)
}

func (s *usageService) GetTenantUsageHistory(ctx context.Context, tenantID string, limit, skip int) ([]models.ServiceUsage, error) {
	return s.usageRepo.GetTenantUsageHistory(ctx, tenantID, limit, skip)
}
