// internal/services/id_type_service.go
package services

import (
	"context"
	"time"

	"kyc-verification-backend/internal/models"
	"kyc-verification-backend/internal/repository"
	apperrors "kyc-verification-backend/pkg/errors"
)

type IDTypeService interface {
	Upsert(ctx context.Context, req *models.UpsertIDTypeRequest) (*models.IDType, error)
	List(ctx context.Context, enabledOnly bool) (*models.IDTypeListResponse, error)
	// RequireEnabled returns the ID type when it exists and is enabled,
	// otherwise a document-type error. Session creation gates on this.
	RequireEnabled(ctx context.Context, code string) (*models.IDType, error)
}

type idTypeService struct {
	idTypeRepo repository.IDTypeRepository
}

func NewIDTypeService(idTypeRepo repository.IDTypeRepository) IDTypeService {
	return &idTypeService{
		idTypeRepo: idTypeRepo,
	}
}

func (s *idTypeService) Upsert(ctx context.Context, req *models.UpsertIDTypeRequest) (*models.IDType, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400, "validation failed", err.Error())
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	idType := &models.IDType{
		Code:              req.Code,
		Name:              req.Name,
		Enabled:           enabled,
		RequiresBack:      req.RequiresBack,
		UsesEthiopianDate: req.UsesEthiopianDate,
		CreatedAt:         time.Now(),
	}

	if err := s.idTypeRepo.Upsert(ctx, idType); err != nil {
		return nil, err
	}

	return s.idTypeRepo.GetByCode(ctx, req.Code)
}

func (s *idTypeService) List(ctx context.Context, enabledOnly bool) (*models.IDTypeListResponse, error) {
	idTypes, err := s.idTypeRepo.List(ctx, enabledOnly)
	if err != nil {
		return nil, err
	}

	return &models.IDTypeListResponse{
		Message: "ID types retrieved successfully",
		IDTypes: idTypes,
		Total:   len(idTypes),
	}, nil
}

func (s *idTypeService) RequireEnabled(ctx context.Context, code string) (*models.IDType, error) {
	idType, err := s.idTypeRepo.GetByCode(ctx, code)
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewDocumentTypeError(code)
		}
		return nil, err
	}
	if !idType.Enabled {
		return nil, apperrors.NewDocumentTypeError(code)
	}
	return idType, nil
}
