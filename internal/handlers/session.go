// internal/handlers/session.go
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

// SessionHandler exposes the capture flow. CreateSession and GetSession are
// tenant endpoints (API key or dashboard token); the step submissions are
// called by the end user's device with the session's capture token.
type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrUnauthorized,
			http.StatusUnauthorized,
			"tenant not found in context",
		))
		return
	}

	var keyPrefix string
	if apiKey, ok := middleware.GetAPIKeyFromContext(r.Context()); ok {
		keyPrefix = apiKey.KeyPrefix
	}

	var req models.CreateSessionRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	response, err := h.sessionService.CreateSession(r.Context(), tenantID, keyPrefix, &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, response)
}

// GetSession returns the session state to its owning tenant. A session
// belonging to another tenant reads as not found.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrUnauthorized,
			http.StatusUnauthorized,
			"tenant not found in context",
		))
		return
	}

	sessionID := chi.URLParam(r, "sessionId")
	session, err := h.sessionService.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}
	if session.TenantID != tenantID {
		utils.SendErrorResponse(w, apperrors.NewSessionNotFoundError())
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, &models.SessionStateResponse{
		Message: "Session retrieved successfully",
		Session: session,
	})
}

func (h *SessionHandler) SubmitIDScan(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req models.IDScanSubmitRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	response, err := h.sessionService.SubmitIDScan(r.Context(), sessionID, &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, response)
}

func (h *SessionHandler) SaveOCRData(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req models.SaveOCRDataRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	response, err := h.sessionService.SaveOCRData(r.Context(), sessionID, req.Data)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	status := http.StatusOK
	if !response.Valid {
		status = http.StatusUnprocessableEntity
	}
	utils.SendJSONResponse(w, status, response)
}

func (h *SessionHandler) SubmitSelfie(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req models.SelfieSubmitRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	response, err := h.sessionService.SubmitSelfie(r.Context(), sessionID, &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, response)
}

func (h *SessionHandler) SubmitLiveness(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req models.LivenessSubmitRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	response, err := h.sessionService.SubmitLiveness(r.Context(), sessionID, &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, response)
}

// GetCaptureState serves the end user's device: same session view but with
// only the fields the capture UI needs.
func (h *SessionHandler) GetCaptureState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	session, err := h.sessionService.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"sessionId": session.SessionID,
		"step":      session.Step,
		"status":    session.Status,
		"draft":     session.OCRDraft,
	})
}
