package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/repository"
	"github.com/adipala-ubp/surat-izin/internal/service"
	"go.uber.org/zap"
)

// PermitHandler serves permit letter CRUD
type PermitHandler struct {
	permitService *service.PermitService
	logger        *zap.Logger
}

// NewPermitHandler creates a new PermitHandler
func NewPermitHandler(permitService *service.PermitService, logger *zap.Logger) *PermitHandler {
	return &PermitHandler{
		permitService: permitService,
		logger:        logger,
	}
}

// Create godoc
// @Summary Create permit letter
// @Description Files a new letter with its line items. Every stage starts pending.
// @Tags Permits
// @Accept json
// @Produce json
// @Param request body domain.CreatePermitRequest true "Letter data"
// @Success 201 {object} domain.PermitLetterDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Letter number already exists"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permits [post]
func (h *PermitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePermitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	letter, err := h.permitService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to create permit letter")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/permits/%d", letter.ID))
	respondJSON(w, http.StatusCreated, letter)
}

// List godoc
// @Summary List permit letters
// @Description Paginated list, newest first
// @Tags Permits
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param direction query string false "Filter by direction" Enums(keluar, masuk)
// @Param status query string false "Filter by status" Enums(pending, review, approved, rejected)
// @Param division query string false "Filter by division"
// @Param createdBy query int false "Filter by creator"
// @Param search query string false "Search letter number, requester and company"
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, effectiveDate, issueDate, letterNumber, status)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.PermitLetterDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permits [get]
func (h *PermitHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &repository.PermitFilters{
		Division:  strings.TrimSpace(q.Get("division")),
		CreatedBy: parseUintQuery(r, "createdBy"),
		Search:    strings.TrimSpace(q.Get("search")),
		Sort: repository.SortConfig{
			Field: q.Get("sortBy"),
			Order: repository.ParseSortOrder(q.Get("sortOrder")),
		},
	}

	if raw := q.Get("direction"); raw != "" {
		direction := domain.Direction(raw)
		if !direction.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid direction: must be keluar or masuk")
			return
		}
		filters.Direction = &direction
	}
	if raw := q.Get("status"); raw != "" {
		status := domain.PermitStatus(raw)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of pending, review, approved, rejected")
			return
		}
		filters.Status = &status
	}

	result, err := h.permitService.List(r.Context(), parseIntQuery(r, "page", 1), parseIntQuery(r, "pageSize", 20), filters)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list permit letters")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get permit letter
// @Tags Permits
// @Produce json
// @Param id path int true "Letter ID"
// @Success 200 {object} domain.PermitLetterDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permits/{id} [get]
func (h *PermitHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid letter ID")
		return
	}

	letter, err := h.permitService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get permit letter")
		return
	}
	respondJSON(w, http.StatusOK, letter)
}

// GetByNumber godoc
// @Summary Get permit letter by number
// @Tags Permits
// @Produce json
// @Param no query string true "Letter number"
// @Success 200 {object} domain.PermitLetterDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permits/by-number [get]
func (h *PermitHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	letter, err := h.permitService.GetByLetterNumber(r.Context(), r.URL.Query().Get("no"))
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get permit letter")
		return
	}
	respondJSON(w, http.StatusOK, letter)
}

// Delete godoc
// @Summary Delete permit letter
// @Description Admin and manager only. Notifications and audit entries are kept.
// @Tags Permits
// @Param id path int true "Letter ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permits/{id} [delete]
func (h *PermitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid letter ID")
		return
	}

	if err := h.permitService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "Failed to delete permit letter")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
