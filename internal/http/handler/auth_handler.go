package handler

import (
	"net/http"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewAuthHandler(userService *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Me godoc
// @Summary Get current authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Me(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get current user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags Auth
// @Produce json
// @Param role query string false "Filter by role" Enums(admin, user, staff, manager, satpam, asman)
// @Param activeOnly query bool false "Only active accounts" default(false)
// @Success 200 {array} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [get]
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var role *domain.UserRole
	if raw := r.URL.Query().Get("role"); raw != "" {
		v := domain.UserRole(raw)
		role = &v
	}

	users, err := h.userService.List(r.Context(), role, r.URL.Query().Get("activeOnly") == "true")
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}
