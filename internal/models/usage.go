// internal/models/usage.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceUsage represents a single service usage record
type ServiceUsage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID    string             `bson:"tenantId" json:"tenantId"`
	SessionID   string             `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	ServiceName string             `bson:"service_name" json:"service_name"`
	Endpoint    string             `bson:"endpoint" json:"endpoint"`
	Method      string             `bson:"method" json:"method"`
	Success     bool               `bson:"success" json:"success"`
	ErrorMsg    string             `bson:"error_msg,omitempty" json:"error_msg,omitempty"`
	RequestID   string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	IPAddress   string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	AuthMethod  string             `bson:"auth_method" json:"auth_method"` // "bearer", "api_key" or "capture_token"
	ProcessTime int64              `bson:"process_time_ms" json:"process_time_ms"` // Processing time in milliseconds
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// UsageStats represents aggregated usage statistics per service
type UsageStats struct {
	ServiceName  string `bson:"_id" json:"service_name"`
	TotalCalls   int    `bson:"total_calls" json:"total_calls"`
	SuccessCalls int    `bson:"success_calls" json:"success_calls"`
	FailedCalls  int    `bson:"failed_calls" json:"failed_calls"`
}

// TenantUsageStats represents per-tenant usage statistics
type TenantUsageStats struct {
	TenantID     string `bson:"_id" json:"tenantId"`
	TotalCalls   int    `bson:"total_calls" json:"total_calls"`
	SuccessCalls int    `bson:"success_calls" json:"success_calls"`
	FailedCalls  int    `bson:"failed_calls" json:"failed_calls"`
}

type UsageStatsResponse struct {
	Message string       `json:"message"`
	Stats   []UsageStats `json:"stats"`
}

type TenantUsageStatsResponse struct {
	Message string             `json:"message"`
	Stats   []TenantUsageStats `json:"stats"`
}

type UsageHistoryResponse struct {
	Message string         `json:"message"`
	Records []ServiceUsage `json:"records"`
	Total   int            `json:"total"`
}
