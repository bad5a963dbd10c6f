// internal/handlers/api_key.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kyc-verification-backend/internal/middleware"
	"kyc-verification-backend/internal/models"
	"kyc-verification-backend/internal/services"
	apperrors "kyc-verification-backend/pkg/errors"
	"kyc-verification-backend/pkg/utils"
)

// APIKeyHandler manages a tenant's API keys via the dashboard token.
type APIKeyHandler struct {
	apiKeyService services.APIKeyService
}

func NewAPIKeyHandler(apiKeyService services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService: apiKeyService}
}

func (h *APIKeyHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrUnauthorized,
			http.StatusUnauthorized,
			"tenant not found in context",
		))
		return
	}

	var req models.CreateAPIKeyRequest
	if r.ContentLength > 0 {
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			utils.SendErrorResponse(w, err)
			return
		}
	}
	if req.KeyName == "" {
		req.KeyName = "Default key"
	}
	if err := req.Validate(); err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrValidation,
			http.StatusBadRequest,
			"validation failed",
			err.Error(),
		))
		return
	}

	response, err := h.apiKeyService.CreateAPIKey(r.Context(), tenantID, &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, response)
}

func (h *APIKeyHandler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrUnauthorized,
			http.StatusUnauthorized,
			"tenant not found in context",
		))
		return
	}

	response, err := h.apiKeyService.ListAPIKeys(r.Context(), tenantID)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, response)
}

// RevokeAPIKey deactivates the key identified by its public prefix.
func (h *APIKeyHandler) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrUnauthorized,
			http.StatusUnauthorized,
			"tenant not found in context",
		))
		return
	}

	keyPrefix := chi.URLParam(r, "keyPrefix")
	if keyPrefix == "" {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrValidation,
			http.StatusBadRequest,
			"keyPrefix is required",
		))
		return
	}

	if err := h.apiKeyService.RevokeAPIKey(r.Context(), tenantID, keyPrefix); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"message": "API key revoked successfully",
	})
}
