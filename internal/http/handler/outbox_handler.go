package handler

import (
	"net/http"

	"github.com/adipala-ubp/surat-izin/internal/service"
	"go.uber.org/zap"
)

// OutboxStatusDTO reports undelivered side effects
type OutboxStatusDTO struct {
	Pending int64 `json:"pending"`
}

// OutboxHandler exposes manual control over side-effect redelivery
type OutboxHandler struct {
	outboxService *service.OutboxService
	batchSize     int
	logger        *zap.Logger
}

func NewOutboxHandler(outboxService *service.OutboxService, batchSize int, logger *zap.Logger) *OutboxHandler {
	return &OutboxHandler{
		outboxService: outboxService,
		batchSize:     batchSize,
		logger:        logger,
	}
}

// Status godoc
// @Summary Outbox status
// @Tags Admin
// @Produce json
// @Success 200 {object} OutboxStatusDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/outbox [get]
func (h *OutboxHandler) Status(w http.ResponseWriter, r *http.Request) {
	pending, err := h.outboxService.PendingCount(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to count pending events")
		return
	}
	respondJSON(w, http.StatusOK, OutboxStatusDTO{Pending: pending})
}

// Dispatch godoc
// @Summary Deliver pending notifications and audit entries now
// @Tags Admin
// @Produce json
// @Param batchSize query int false "Events to attempt in this pass"
// @Success 200 {object} domain.OutboxDispatchResultDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/outbox/dispatch [post]
func (h *OutboxHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.outboxService.DispatchPending(r.Context(), parseIntQuery(r, "batchSize", h.batchSize))
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to dispatch outbox")
		return
	}

	h.logger.Info("manual outbox dispatch",
		zap.Int("delivered", result.Delivered),
		zap.Int("failed", result.Failed))
	respondJSON(w, http.StatusOK, result)
}
