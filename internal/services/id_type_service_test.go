// internal/services/id_type_service_test.go
package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"kyc-verification-backend/internal/models"
	apperrors "kyc-verification-backend/pkg/errors"
)

type fakeIDTypeRepo struct {
	mutex sync.Mutex
	types map[string]*models.IDType
}

func newFakeIDTypeRepo() *fakeIDTypeRepo {
	return &fakeIDTypeRepo{types: make(map[string]*models.IDType)}
}

func (r *fakeIDTypeRepo) Upsert(ctx context.Context, idType *models.IDType) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	copied := *idType
	r.types[idType.Code] = &copied
	return nil
}

func (r *fakeIDTypeRepo) GetByCode(ctx context.Context, code string) (*models.IDType, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	idType, ok := r.types[code]
	if !ok {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, 404, "ID type not found")
	}
	copied := *idType
	return &copied, nil
}

func (r *fakeIDTypeRepo) List(ctx context.Context, enabledOnly bool) ([]models.IDType, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []models.IDType
	for _, idType := range r.types {
		if enabledOnly && !idType.Enabled {
			continue
		}
		out = append(out, *idType)
	}
	return out, nil
}

func TestIDTypeService(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert defaults to enabled", func(t *testing.T) {
		service := NewIDTypeService(newFakeIDTypeRepo())

		idType, err := service.Upsert(ctx, &models.UpsertIDTypeRequest{
			Code: "ethiopian_id",
			Name: "Ethiopian National ID",
		})
		require.NoError(t, err)
		require.True(t, idType.Enabled)
	})

	t.Run("upsert rejects bad codes", func(t *testing.T) {
		service := NewIDTypeService(newFakeIDTypeRepo())

		_, err := service.Upsert(ctx, &models.UpsertIDTypeRequest{Code: "Ethiopian ID", Name: "x"})
		require.Error(t, err)
		require.True(t, apperrors.IsErrorType(err, apperrors.ErrValidation))
	})

	t.Run("list filters disabled types", func(t *testing.T) {
		service := NewIDTypeService(newFakeIDTypeRepo())

		_, err := service.Upsert(ctx, &models.UpsertIDTypeRequest{Code: "ethiopian_id", Name: "Ethiopian National ID"})
		require.NoError(t, err)
		disabled := false
		_, err = service.Upsert(ctx, &models.UpsertIDTypeRequest{Code: "passport", Name: "Passport", Enabled: &disabled})
		require.NoError(t, err)

		all, err := service.List(ctx, false)
		require.NoError(t, err)
		require.Equal(t, 2, all.Total)

		enabled, err := service.List(ctx, true)
		require.NoError(t, err)
		require.Equal(t, 1, enabled.Total)
		require.Equal(t, "ethiopian_id", enabled.IDTypes[0].Code)
	})

	t.Run("RequireEnabled", func(t *testing.T) {
		service := NewIDTypeService(newFakeIDTypeRepo())

		_, err := service.RequireEnabled(ctx, "ethiopian_id")
		require.True(t, apperrors.IsErrorType(err, apperrors.ErrDocumentType))

		_, err = service.Upsert(ctx, &models.UpsertIDTypeRequest{Code: "ethiopian_id", Name: "Ethiopian National ID"})
		require.NoError(t, err)

		idType, err := service.RequireEnabled(ctx, "ethiopian_id")
		require.NoError(t, err)
		require.Equal(t, "ethiopian_id", idType.Code)

		disabled := false
		_, err = service.Upsert(ctx, &models.UpsertIDTypeRequest{Code: "ethiopian_id", Name: "Ethiopian National ID", Enabled: &disabled})
		require.NoError(t, err)

		_, err = service.RequireEnabled(ctx, "ethiopian_id")
		require.True(t, apperrors.IsErrorType(err, apperrors.ErrDocumentType))
	})
}
