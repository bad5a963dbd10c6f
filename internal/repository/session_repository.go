// internal/repository/session_repository.go
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sessionRepository struct {
	collection *mongo.Collection
}

func NewSessionRepository(collection *mongo.Collection) SessionRepository {
	return &sessionRepository{
		collection: collection,
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.VerificationSession) error {
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return err
	}

	session.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *sessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.VerificationSession, error) {
	var session models.VerificationSession
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewSessionNotFoundError()
		}
		return nil, err
	}
	return &session, nil
}

// Update replaces the session document's mutable fields. The whole document
// is small enough that a full replace keeps the step transitions atomic.
func (r *sessionRepository) Update(ctx context.Context, session *models.VerificationSession) error {
	session.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx,
		bson.M{"sessionId": session.SessionID},
		session,
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NewSessionNotFoundError()
	}
	return nil
}

func (r *sessionRepository) ListByTenant(ctx context.Context, tenantID string, limit, skip int) ([]models.VerificationSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := r.collection.Find(ctx, bson.M{"tenantId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []models.VerificationSession
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
