package handler

import (
	"net/http"

	"github.com/adipala-ubp/surat-izin/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List godoc
// @Summary List notifications
// @Description Get paginated list of notifications for the current user
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param unreadOnly query bool false "Filter to show only unread notifications" default(false)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.NotificationDTO}
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"

	result, err := h.notificationService.GetForCurrentUser(r.Context(),
		parseIntQuery(r, "page", 1), parseIntQuery(r, "pageSize", 20), unreadOnly)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list notifications")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetUnreadCount godoc
// @Summary Get unread notification count
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.UnreadCountDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /notifications/count [get]
func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.GetUnreadCount(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get unread count")
		return
	}
	respondJSON(w, http.StatusOK, count)
}

// GetByID godoc
// @Summary Get notification
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} domain.NotificationDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /notifications/{id} [get]
func (h *NotificationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID: must be a valid UUID")
		return
	}

	notification, err := h.notificationService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get notification")
		return
	}
	respondJSON(w, http.StatusOK, notification)
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Tags Notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID: must be a valid UUID")
		return
	}

	if err := h.notificationService.MarkAsRead(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "Failed to mark notification as read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllAsRead godoc
// @Summary Mark all notifications as read
// @Tags Notifications
// @Success 204
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.MarkAllAsReadForUser(r.Context()); err != nil {
		handleServiceError(w, h.logger, err, "Failed to mark notifications as read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
