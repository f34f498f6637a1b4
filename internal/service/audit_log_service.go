package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/mapper"
	"github.com/adipala-ubp/surat-izin/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntityTypePermit tags audit entries that concern a permit letter
const EntityTypePermit = "permit"

// AuditLogService records and queries the audit trail
type AuditLogService struct {
	auditRepo  *repository.AuditLogRepository
	outboxRepo *repository.OutboxRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuditLogService creates a new audit log service
func NewAuditLogService(auditRepo *repository.AuditLogRepository, outboxRepo *repository.OutboxRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{
		auditRepo:  auditRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// WithTx returns a service whose writes join tx
func (s *AuditLogService) WithTx(tx *gorm.DB) *AuditLogService {
	return &AuditLogService{
		auditRepo:  s.auditRepo.WithTx(tx),
		outboxRepo: s.outboxRepo.WithTx(tx),
		logger:     s.logger,
		now:        s.now,
	}
}

// LogEntry represents the input for creating an audit log entry
type LogEntry struct {
	UserID      uint
	UserName    string
	Action      domain.AuditAction
	Description string
	EntityType  string
	EntityID    *uint
}

// Record queues one audit entry with the request origin taken from ctx
func (s *AuditLogService) Record(ctx context.Context, entry LogEntry) (*domain.OutboxEvent, error) {
	origin := auth.OriginFromContext(ctx)
	return enqueue(ctx, s.outboxRepo, domain.OutboxKindAudit, domain.AuditPayload{
		UserID:      entry.UserID,
		UserName:    entry.UserName,
		Action:      entry.Action,
		Description: entry.Description,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		IPAddress:   origin.IPAddress,
		UserAgent:   origin.UserAgent,
		RequestID:   origin.RequestID,
		PerformedAt: s.now().UTC(),
	})
}

// RecordForPermit queues an audit entry about letterID on behalf of the caller
func (s *AuditLogService) RecordForPermit(ctx context.Context, user *auth.UserContext, action domain.AuditAction, letterID uint, description string) (*domain.OutboxEvent, error) {
	id := letterID
	return s.Record(ctx, LogEntry{
		UserID:      user.UserID,
		UserName:    user.DisplayName,
		Action:      action,
		Description: description,
		EntityType:  EntityTypePermit,
		EntityID:    &id,
	})
}

// AuditLogQueryParams represents query parameters for listing audit logs
type AuditLogQueryParams struct {
	UserID    *uint
	Action    *domain.AuditAction
	EntityID  *uint
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	PageSize  int
}

// List retrieves audit logs with filters
func (s *AuditLogService) List(ctx context.Context, params AuditLogQueryParams) (*domain.PaginatedResponse, error) {
	page, pageSize := clampPagination(params.Page, params.PageSize)
	filter := &repository.AuditLogFilter{
		UserID:    params.UserID,
		Action:    params.Action,
		EntityID:  params.EntityID,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
	}
	if params.EntityID != nil {
		filter.EntityType = EntityTypePermit
	}

	logs, total, err := s.auditRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	dtos := make([]domain.AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = mapper.ToAuditLogDTO(&logs[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

// GetByID retrieves a specific audit log entry
func (s *AuditLogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLogDTO, error) {
	log, err := s.auditRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditLogNotFound
		}
		return nil, fmt.Errorf("failed to get audit log: %w", err)
	}
	dto := mapper.ToAuditLogDTO(log)
	return &dto, nil
}

// GetPermitHistory returns the audit entries for one letter, oldest first
func (s *AuditLogService) GetPermitHistory(ctx context.Context, letterID uint, limit int) ([]domain.AuditLogDTO, error) {
	if limit < 1 || limit > 500 {
		limit = 500
	}
	logs, err := s.auditRepo.ListByEntity(ctx, EntityTypePermit, letterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list permit history: %w", err)
	}
	dtos := make([]domain.AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = mapper.ToAuditLogDTO(&logs[i])
	}
	return dtos, nil
}
