// internal/repository/api_key_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"kyc-verification-backend/internal/models"
	apperrors "kyc-verification-backend/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type apiKeyRepository struct {
	collection *mongo.Collection
}

func NewAPIKeyRepository(collection *mongo.Collection) APIKeyRepository {
	return &apiKeyRepository{
		collection: collection,
	}
}

func (r *apiKeyRepository) Create(ctx context.Context, apiKey *models.APIKey) error {
	result, err := r.collection.InsertOne(ctx, apiKey)
	if err != nil {
		return err
	}

	apiKey.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *apiKeyRepository) GetActiveByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	filter := bson.M{
		"keyHash":  keyHash,
		"isActive": true,
		"$or": []bson.M{
			{"expiresAt": bson.M{"$exists": false}},
			{"expiresAt": nil},
			{"expiresAt": bson.M{"$gt": time.Now()}},
		},
	}

	var apiKey models.APIKey
	err := r.collection.FindOne(ctx, filter).Decode(&apiKey)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewInvalidAPIKeyError()
		}
		return nil, err
	}
	return &apiKey, nil
}

func (r *apiKeyRepository) ListByTenant(ctx context.Context, tenantID string) ([]models.APIKey, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"tenantId": tenantID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var keys []models.APIKey
	if err = cursor.All(ctx, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *apiKeyRepository) RevokeByPrefix(ctx context.Context, tenantID, keyPrefix string) error {
	update := bson.M{
		"$set": bson.M{
			"isActive":  false,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"tenantId": tenantID, "keyPrefix": keyPrefix},
		update,
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NewAppError(apperrors.ErrNotFound, 404, "API key not found")
	}
	return nil
}

func (r *apiKeyRepository) UpdateLastUsed(ctx context.Context, keyHash string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"lastUsedAt": now,
			"updatedAt":  now,
		},
		"$inc": bson.M{
			"usageCount": 1,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"keyHash": keyHash}, update)
	return err
}
