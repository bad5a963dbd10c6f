// internal/handlers/usage.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"kyc-verification-backend/internal/middleware"
	"kyc-verification-backend/internal/services"
	apperrors "kyc-verification-backend/pkg/errors"
	"kyc-verification-backend/pkg/utils"
)

type UsageHandler struct {
	usageService services.UsageService
}

func NewUsageHandler(usageService services.UsageService) *UsageHandler {
	return &UsageHandler{
		usageService: usageService,
	}
}

// GetGlobalStats aggregates per-service counters across all tenants.
func (h *UsageHandler) GetGlobalStats(w http.ResponseWriter, r *http.Request) {
	startDate, endDate := h.parseDateRange(r)

	stats, err := h.usageService.GetGlobalStats(r.Context(), startDate, endDate)
	if err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrInternalServer,
			http.StatusInternalServerError,
			"failed to get global usage stats: "+err.Error(),
		))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"stats":          stats,
		"total_services": len(stats),
		"date_range": map[string]interface{}{
			"start_date": startDate,
			"end_date":   endDate,
		},
	})
}

// GetTenantStats aggregates counters grouped by tenant.
func (h *UsageHandler) GetTenantStats(w http.ResponseWriter, r *http.Request) {
	startDate, endDate := h.parseDateRange(r)

	stats, err := h.usageService.GetTenantStats(r.Context(), startDate, endDate)
	if err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrInternalServer,
			http.StatusInternalServerError,
			"failed to get tenant usage stats: "+err.Error(),
		))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"stats":         stats,
		"total_tenants": len(stats),
		"date_range": map[string]interface{}{
			"start_date": startDate,
			"end_date":   endDate,
		},
	})
}

// GetUsageHistory returns the calling tenant's own raw usage records.
func (h *UsageHandler) GetUsageHistory(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrUnauthorized,
			http.StatusUnauthorized,
			"tenant not found in context",
		))
		return
	}

	limit := h.parseIntQuery(r, "limit", 50)
	skip := h.parseIntQuery(r, "skip", 0)

	if limit > 1000 {
		limit = 1000
	}
	if limit < 1 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	usage, err := h.usageService.GetTenantUsageHistory(r.Context(), tenantID, limit, skip)
	if err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrInternalServer,
			http.StatusInternalServerError,
			"failed to get usage history: "+err.Error(),
		))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"tenant_id":     tenantID,
		"usage_history": usage,
		"total_records": len(usage),
		"pagination": map[string]interface{}{
			"limit": limit,
			"skip":  skip,
		},
	})
}

// Helper method to parse date range from query parameters
func (h *UsageHandler) parseDateRange(r *http.Request) (*time.Time, *time.Time) {
	var startDate, endDate *time.Time

	if startStr := r.URL.Query().Get("start_date"); startStr != "" {
		if parsed, err := time.Parse("2006-01-02", startStr); err == nil {
			startDate = &parsed
		}
	}

	if endStr := r.URL.Query().Get("end_date"); endStr != "" {
		if parsed, err := time.Parse("2006-01-02", endStr); err == nil {
			// Add 23:59:59 to include the entire end date
			endTime := parsed.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			endDate = &endTime
		}
	}

	return startDate, endDate
}

// Helper method to parse integer query parameters with default values
func (h *UsageHandler) parseIntQuery(r *http.Request, key string, defaultValue int) int {
	if str := r.URL.Query().Get(key); str != "" {
		if val, err := strconv.Atoi(str); err == nil {
			return val
		}
	}
	return defaultValue
}
