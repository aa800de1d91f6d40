package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/tolerance"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ToleranceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type toleranceHandlerImpl struct {
	toleranceService tolerance.ToleranceService
}

func NewToleranceHandler(toleranceService tolerance.ToleranceService) ToleranceHandler {
	return &toleranceHandlerImpl{
		toleranceService: toleranceService,
	}
}

// List implements ToleranceHandler.
func (h *toleranceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.toleranceService.ListPolicies(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements ToleranceHandler.
func (h *toleranceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	positionID := chi.URLParam(r, "positionID")

	result, err := h.toleranceService.GetPolicy(r.Context(), positionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Upsert implements ToleranceHandler.
func (h *toleranceHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req tolerance.UpsertPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.PositionID = chi.URLParam(r, "positionID")

	result, err := h.toleranceService.UpsertPolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tolerance policy saved successfully", result)
}

// Delete implements ToleranceHandler.
func (h *toleranceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	positionID := chi.URLParam(r, "positionID")

	if err := h.toleranceService.DeletePolicy(r.Context(), positionID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tolerance policy deleted successfully", nil)
}
