package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OutboxService delivers queued notification and audit events.
//
// Events are written in the same transaction as the state change that produced
// them. Deliver runs right after that transaction commits; whatever it could not
// deliver stays pending for DispatchPending, which the scheduler calls periodically.
// A delivered row reuses its event id, so delivering the same event twice inserts
// nothing the second time.
type OutboxService struct {
	db               *gorm.DB
	outboxRepo       *repository.OutboxRepository
	notificationRepo *repository.NotificationRepository
	auditRepo        *repository.AuditLogRepository
	maxAttempts      int
	logger           *zap.Logger
}

// NewOutboxService creates a new OutboxService
func NewOutboxService(
	db *gorm.DB,
	outboxRepo *repository.OutboxRepository,
	notificationRepo *repository.NotificationRepository,
	auditRepo *repository.AuditLogRepository,
	maxAttempts int,
	logger *zap.Logger,
) *OutboxService {
	return &OutboxService{
		db:               db,
		outboxRepo:       outboxRepo,
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		maxAttempts:      maxAttempts,
		logger:           logger,
	}
}

// Deliver attempts each event once. Failures are logged and counted, never returned.
func (s *OutboxService) Deliver(ctx context.Context, events []domain.OutboxEvent) *domain.OutboxDispatchResultDTO {
	result := &domain.OutboxDispatchResultDTO{}
	for i := range events {
		if err := s.deliverOne(ctx, &events[i]); err != nil {
			result.Failed++
			continue
		}
		result.Delivered++
	}
	return result
}

// DispatchPending delivers up to batchSize pending events, oldest first
func (s *OutboxService) DispatchPending(ctx context.Context, batchSize int) (*domain.OutboxDispatchResultDTO, error) {
	if batchSize < 1 {
		batchSize = 100
	}
	events, err := s.outboxRepo.ListPending(ctx, batchSize, s.maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending outbox events: %w", err)
	}
	if len(events) == 0 {
		return &domain.OutboxDispatchResultDTO{}, nil
	}

	result := s.Deliver(ctx, events)
	s.logger.Info("outbox dispatch completed",
		zap.Int("delivered", result.Delivered),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// PendingCount returns the number of events not yet delivered
func (s *OutboxService) PendingCount(ctx context.Context) (int64, error) {
	return s.outboxRepo.CountPending(ctx)
}

func (s *OutboxService) deliverOne(ctx context.Context, event *domain.OutboxEvent) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch event.Kind {
		case domain.OutboxKindNotification:
			var payload domain.NotificationPayload
			if err := json.Unmarshal(event.Payload, &payload); err != nil {
				return fmt.Errorf("invalid notification payload: %w", err)
			}
			notification := &domain.Notification{
				ID:        event.ID,
				UserID:    payload.UserID,
				Title:     payload.Title,
				Message:   payload.Message,
				Link:      payload.Link,
				CreatedAt: event.CreatedAt,
			}
			if err := s.notificationRepo.WithTx(tx).CreateIfAbsent(ctx, notification); err != nil {
				return fmt.Errorf("failed to insert notification: %w", err)
			}
		case domain.OutboxKindAudit:
			var payload domain.AuditPayload
			if err := json.Unmarshal(event.Payload, &payload); err != nil {
				return fmt.Errorf("invalid audit payload: %w", err)
			}
			entry := &domain.AuditLog{
				ID:          event.ID,
				UserID:      payload.UserID,
				UserName:    payload.UserName,
				Action:      payload.Action,
				Description: payload.Description,
				EntityType:  payload.EntityType,
				EntityID:    payload.EntityID,
				IPAddress:   payload.IPAddress,
				UserAgent:   payload.UserAgent,
				RequestID:   payload.RequestID,
				PerformedAt: payload.PerformedAt,
			}
			if err := s.auditRepo.WithTx(tx).CreateIfAbsent(ctx, entry); err != nil {
				return fmt.Errorf("failed to insert audit log: %w", err)
			}
		default:
			return fmt.Errorf("unknown outbox kind %q", event.Kind)
		}

		_, err := s.outboxRepo.WithTx(tx).MarkDelivered(ctx, event.ID, time.Now().UTC())
		return err
	})
	if err == nil {
		return nil
	}

	s.logger.Warn("outbox delivery failed",
		zap.String("event_id", event.ID.String()),
		zap.String("kind", string(event.Kind)),
		zap.Int("attempts", event.Attempts+1),
		zap.Error(err),
	)
	if recErr := s.outboxRepo.RecordFailure(ctx, event.ID, err.Error()); recErr != nil {
		s.logger.Error("failed to record outbox failure",
			zap.String("event_id", event.ID.String()),
			zap.Error(recErr),
		)
	}
	return err
}

// enqueue writes one outbox event through repo, which is normally bound to the
// caller's transaction
func enqueue(ctx context.Context, repo *repository.OutboxRepository, kind domain.OutboxKind, payload interface{}) (*domain.OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", kind, err)
	}
	event := &domain.OutboxEvent{
		Kind:    kind,
		Payload: raw,
	}
	if err := repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to queue %s event: %w", kind, err)
	}
	return event, nil
}
