package handler

import (
	"net/http"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditHandler handles audit log related HTTP requests. Role checks happen in the router.
type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary List audit logs
// @Description Returns a paginated list of audit log entries with optional filters, newest first
// @Tags Audit
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 200)"
// @Param userId query int false "Filter by user ID"
// @Param action query string false "Filter by action" Enums(create, stage_decision, status_override, delete)
// @Param entityId query int false "Filter by letter ID"
// @Param startTime query string false "Filter by start time (RFC3339)"
// @Param endTime query string false "Filter by end time (RFC3339)"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.AuditLogDTO}
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := service.AuditLogQueryParams{
		UserID:   parseUintQuery(r, "userId"),
		EntityID: parseUintQuery(r, "entityId"),
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "pageSize", 20),
	}

	if raw := q.Get("action"); raw != "" {
		action := domain.AuditAction(raw)
		params.Action = &action
	}

	for key, dst := range map[string]**time.Time{"startTime": &params.StartTime, "endTime": &params.EndTime} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid "+key+": must be RFC3339")
			return
		}
		*dst = &ts
	}

	result, err := h.auditService.List(r.Context(), params)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to retrieve audit logs")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get audit log by ID
// @Tags Audit
// @Produce json
// @Param id path string true "Audit log ID"
// @Success 200 {object} domain.AuditLogDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/{id} [get]
func (h *AuditHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid audit log ID")
		return
	}

	entry, err := h.auditService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to retrieve audit log")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// PermitHistory godoc
// @Summary Approval history of a letter
// @Description Audit entries about one letter, oldest first. Entries outlive the letter.
// @Tags Audit
// @Produce json
// @Param id path int true "Letter ID"
// @Param limit query int false "Maximum entries (default and max: 500)"
// @Success 200 {array} domain.AuditLogDTO
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permits/{id}/audit [get]
func (h *AuditHandler) PermitHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid letter ID")
		return
	}

	history, err := h.auditService.GetPermitHistory(r.Context(), id, parseIntQuery(r, "limit", 0))
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to retrieve approval history")
		return
	}
	respondJSON(w, http.StatusOK, history)
}
