// internal/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"kyc-verification-backend/internal/models"
	"kyc-verification-backend/pkg/utils"
)

type HealthHandler struct {
	mongoClient *mongo.Client
	redisClient *redis.Client
}

func NewHealthHandler(mongoClient *mongo.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
		redisClient: redisClient,
	}
}

// HealthCheck pings both stores so the load balancer only routes to
// instances that can actually serve a session.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.mongoClient != nil {
		if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			utils.SendJSONResponse(w, http.StatusServiceUnavailable, models.HealthResponse{
				Status:  "unhealthy",
				Message: "MongoDB unreachable: " + err.Error(),
			})
			return
		}
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			utils.SendJSONResponse(w, http.StatusServiceUnavailable, models.HealthResponse{
				Status:  "unhealthy",
				Message: "Redis unreachable: " + err.Error(),
			})
			return
		}
	}

	utils.SendJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Message: "Server is running",
	})
}
