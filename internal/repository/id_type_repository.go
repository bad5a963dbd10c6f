// internal/repository/id_type_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"kyc-verification-backend/internal/models"
	apperrors "kyc-verification-backend/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type idTypeRepository struct {
	collection *mongo.Collection
}

func NewIDTypeRepository(collection *mongo.Collection) IDTypeRepository {
	return &idTypeRepository{
		collection: collection,
	}
}

func (r *idTypeRepository) Upsert(ctx context.Context, idType *models.IDType) error {
	now := time.Now()
	idType.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"name":              idType.Name,
			"enabled":           idType.Enabled,
			"requiresBack":      idType.RequiresBack,
			"usesEthiopianDate": idType.UsesEthiopianDate,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{
			"code":      idType.Code,
			"createdAt": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"code": idType.Code}, update, opts)
	return err
}

func (r *idTypeRepository) GetByCode(ctx context.Context, code string) (*models.IDType, error) {
	var idType models.IDType
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&idType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewAppError(apperrors.ErrNotFound, 404, "ID type not found")
		}
		return nil, err
	}
	return &idType, nil
}

func (r *idTypeRepository) List(ctx context.Context, enabledOnly bool) ([]models.IDType, error) {
	filter := bson.M{}
	if enabledOnly {
		filter["enabled"] = true
	}

	opts := options.Find().SetSort(bson.M{"code": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var idTypes []models.IDType
	if err = cursor.All(ctx, &idTypes); err != nil {
		return nil, err
	}
	return idTypes, nil
}
