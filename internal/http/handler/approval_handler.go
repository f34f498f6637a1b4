package handler

import (
	"net/http"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ApprovalHandler serves stage decisions and status overrides
type ApprovalHandler struct {
	approvalService *service.ApprovalService
	logger          *zap.Logger
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(approvalService *service.ApprovalService, logger *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		approvalService: approvalService,
		logger:          logger,
	}
}

// Submit godoc
// @Summary Decide an approval stage
// @Description Records the caller's decision on one stage. user and satpam decide sesuai/tidak_sesuai
// @Description and may tag line items by position; asman and manager decide approved/rejected.
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path int true "Letter ID"
// @Param stage path string true "Stage" Enums(user, satpam, asman, manager)
// @Param request body domain.SubmitApprovalRequest true "Decision"
// @Success 200 {object} domain.PermitLetterDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Previous stage pending, stage frozen or concurrent update"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permits/{id}/approvals/{stage} [post]
func (h *ApprovalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid letter ID")
		return
	}

	var req domain.SubmitApprovalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	stage := domain.StageName(chi.URLParam(r, "stage"))
	letter, err := h.approvalService.SubmitApproval(r.Context(), id, stage, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to record decision")
		return
	}
	respondJSON(w, http.StatusOK, letter)
}

// OverrideStatus godoc
// @Summary Override letter status
// @Description Admin and manager only. Sets the aggregate status without touching stage records.
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path int true "Letter ID"
// @Param request body domain.OverrideStatusRequest true "New status"
// @Success 200 {object} domain.PermitLetterDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permits/{id}/status [post]
func (h *ApprovalHandler) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid letter ID")
		return
	}

	var req domain.OverrideStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	letter, err := h.approvalService.OverrideStatus(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to override status")
		return
	}
	respondJSON(w, http.StatusOK, letter)
}
