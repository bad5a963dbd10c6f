// internal/repository/usage_repository.go
package repository

import (
	"context"
	"time"

	"kyc-verification-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type usageRepository struct {
	collection *mongo.Collection
}

func NewUsageRepository(collection *mongo.Collection) UsageRepository {
	return &usageRepository{
		collection: collection,
	}
}

func (r *usageRepository) CreateUsage(ctx context.Context, usage *models.ServiceUsage) error {
	usage.ID = primitive.NewObjectID()
	usage.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, usage)
	return err
}

func (r *usageRepository) GetGlobalStats(ctx context.Context, startDate, endDate *time.Time) ([]models.UsageStats, error) {
	pipeline := []bson.M{
		{
			"$match": r.buildDateFilter(startDate, endDate),
		},
		{
			"$group": bson.M{
				"_id":         "$service_name",
				"total_calls": bson.M{"$sum": 1},
				"success_calls": bson.M{
					"$sum": bson.M{
						"$cond": bson.M{
							"if":   "$success",
							"then": 1,
							"else": 0,
						},
					},
				},
				"failed_calls": bson.M{
					"$sum": bson.M{
						"$cond": bson.M{
							"if":   "$success",
							"then": 0,
							"else": 1,
						},
					},
				},
			},
		},
		{
			"$sort": bson.M{"total_calls": -1},
		},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []models.UsageStats
	if err = cursor.All(ctx, &stats); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *usageRepository) GetTenantStats(ctx context.Context, startDate, endDate *time.Time) ([]models.TenantUsageStats, error) {
	pipeline := []bson.M{
		{
			"$match": r.buildDateFilter(startDate, endDate),
		},
		{
			"$group": bson.M{
				"_id":         "$tenantId",
				"total_calls": bson.M{"$sum": 1},
				"success_calls": bson.M{
					"$sum": bson.M{
						"$cond": bson.M{
							"if":   "$success",
							"then": 1,
							"else": 0,
						},
					},
				},
				"failed_calls": bson.M{
					"$sum": bson.M{
						"$cond": bson.M{
							"if":   "$success",
							"then": 0,
							"else": 1,
						},
					},
				},
			},
		},
		{
			"$sort": bson.M{"total_calls": -1},
		},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []models.TenantUsageStats
	if err = cursor.All(ctx, &stats); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *usageRepository) GetTenantUsageHistory(ctx context.Context, tenantID string, limit, skip int) ([]models.ServiceUsage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := r.collection.Find(ctx, bson.M{"tenantId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.ServiceUsage
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *usageRepository) buildDateFilter(startDate, endDate *time.Time) bson.M {
	filter := bson.M{}
	dateFilter := bson.M{}

	if startDate != nil {
		dateFilter["$gte"] = *startDate
	}
	if endDate != nil {
		dateFilter["$lte"] = *endDate
	}
	if len(dateFilter) > 0 {
		filter["created_at"] = dateFilter
	}

	return filter
}
