package repository

import (
	"context"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditLogFilter represents filter options for querying audit logs
type AuditLogFilter struct {
	UserID     *uint
	Action     *domain.AuditAction
	EntityType string
	EntityID   *uint
	StartTime  *time.Time
	EndTime    *time.Time
	RequestID  string
}

// AuditLogRepository handles audit log data access
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *AuditLogRepository) WithTx(tx *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: tx}
}

// Create inserts a new audit log entry (append-only - no updates allowed)
func (r *AuditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// CreateIfAbsent inserts log unless an entry with the same id already exists
func (r *AuditLogRepository) CreateIfAbsent(ctx context.Context, log *domain.AuditLog) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(log).Error
}

// GetByID retrieves an audit log by ID
func (r *AuditLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLog, error) {
	var log domain.AuditLog
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// List retrieves audit logs with pagination and optional filters
func (r *AuditLogRepository) List(ctx context.Context, filter *AuditLogFilter, page, pageSize int) ([]domain.AuditLog, int64, error) {
	var logs []domain.AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.AuditLog{})
	query = r.applyFilters(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("performed_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error

	return logs, total, err
}

// ListByEntity retrieves audit logs for a specific entity, oldest first
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType string, entityID uint, limit int) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("performed_at ASC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// applyFilters applies optional filters to the query
func (r *AuditLogRepository) applyFilters(query *gorm.DB, filter *AuditLogFilter) *gorm.DB {
	if filter == nil {
		return query
	}

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}

	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}

	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}

	if filter.StartTime != nil {
		query = query.Where("performed_at >= ?", *filter.StartTime)
	}

	if filter.EndTime != nil {
		query = query.Where("performed_at <= ?", *filter.EndTime)
	}

	if filter.RequestID != "" {
		query = query.Where("request_id = ?", filter.RequestID)
	}

	return query
}
