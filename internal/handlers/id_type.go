// internal/handlers/id_type.go
package handlers

import (
	"net/http"

	"kyc-verification-backend/internal/models"
	"kyc-verification-backend/internal/services"
	apperrors "kyc-verification-backend/pkg/errors"
	"kyc-verification-backend/pkg/utils"
)

// IDTypeHandler manages the catalog of accepted document types.
type IDTypeHandler struct {
	idTypeService services.IDTypeService
}

func NewIDTypeHandler(idTypeService services.IDTypeService) *IDTypeHandler {
	return &IDTypeHandler{idTypeService: idTypeService}
}

func (h *IDTypeHandler) UpsertIDType(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertIDTypeRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
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

	idType, err := h.idTypeService.Upsert(r.Context(), &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, &models.IDTypeResponse{
		Message: "ID type saved successfully",
		IDType:  idType,
	})
}

// ListIDTypes returns the catalog. ?enabled=true narrows to the types a
// session can currently be created for.
func (h *IDTypeHandler) ListIDTypes(w http.ResponseWriter, r *http.Request) {
	enabledOnly := r.URL.Query().Get("enabled") == "true"

	response, err := h.idTypeService.List(r.Context(), enabledOnly)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, response)
}

// ListEnabledIDTypes is the tenant-facing view: only the document types a
// session can be created for right now.
func (h *IDTypeHandler) ListEnabledIDTypes(w http.ResponseWriter, r *http.Request) {
	response, err := h.idTypeService.List(r.Context(), true)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, response)
}
