package repository

import (
	"context"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutboxRepository stores side effects waiting for delivery
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *OutboxRepository) WithTx(tx *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: tx}
}

func (r *OutboxRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *OutboxRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.OutboxEvent, error) {
	var event domain.OutboxEvent
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListPending returns undelivered events that still have attempts left, oldest first
func (r *OutboxRepository) ListPending(ctx context.Context, limit, maxAttempts int) ([]domain.OutboxEvent, error) {
	var events []domain.OutboxEvent
	query := r.db.WithContext(ctx).Where("delivered_at IS NULL")
	if maxAttempts > 0 {
		query = query.Where("attempts < ?", maxAttempts)
	}
	err := query.Order("created_at ASC").Limit(limit).Find(&events).Error
	return events, err
}

// MarkDelivered stamps an event as delivered. It reports false if the event was already delivered.
func (r *OutboxRepository) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.OutboxEvent{}).
		Where("id = ? AND delivered_at IS NULL", id).
		Updates(map[string]interface{}{
			"delivered_at": at,
			"attempts":     gorm.Expr("attempts + 1"),
			"last_error":   "",
		})
	return result.RowsAffected == 1, result.Error
}

// RecordFailure counts a failed delivery attempt
func (r *OutboxRepository) RecordFailure(ctx context.Context, id uuid.UUID, cause string) error {
	return r.db.WithContext(ctx).
		Model(&domain.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": cause,
		}).Error
}

// CountPending returns the number of undelivered events
func (r *OutboxRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.OutboxEvent{}).
		Where("delivered_at IS NULL").
		Count(&count).Error
	return count, err
}
