package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/mapper"
	"github.com/adipala-ubp/surat-izin/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationService dispatches in-app notices and serves them back to their owners.
// Notify and NotifyRoleHolders only queue outbox events; the rows appear once the
// outbox delivers them.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	outboxRepo       *repository.OutboxRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	outboxRepo *repository.OutboxRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		outboxRepo:       outboxRepo,
		logger:           logger,
	}
}

// WithTx returns a service whose writes join tx
func (s *NotificationService) WithTx(tx *gorm.DB) *NotificationService {
	return &NotificationService{
		notificationRepo: s.notificationRepo.WithTx(tx),
		userRepo:         s.userRepo.WithTx(tx),
		outboxRepo:       s.outboxRepo.WithTx(tx),
		logger:           s.logger,
	}
}

// Notify queues one notice for userID
func (s *NotificationService) Notify(ctx context.Context, userID uint, title, message, link string) (*domain.OutboxEvent, error) {
	return enqueue(ctx, s.outboxRepo, domain.OutboxKindNotification, domain.NotificationPayload{
		UserID:  userID,
		Title:   title,
		Message: message,
		Link:    link,
	})
}

// NotifyRoleHolders queues a notice for every active user holding one of roles,
// skipping excludeUserID
func (s *NotificationService) NotifyRoleHolders(ctx context.Context, roles []domain.UserRole, title, message, link string, excludeUserID uint) ([]domain.OutboxEvent, error) {
	users, err := s.userRepo.ListActiveByRoles(ctx, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to list role holders: %w", err)
	}

	events := make([]domain.OutboxEvent, 0, len(users))
	for _, user := range users {
		if user.ID == excludeUserID {
			continue
		}
		event, err := s.Notify(ctx, user.ID, title, message, link)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	s.logger.Debug("notifications queued for role holders",
		zap.Int("count", len(events)),
		zap.String("title", title),
	)
	return events, nil
}

// GetForCurrentUser returns notifications for the current user with pagination
func (s *NotificationService) GetForCurrentUser(ctx context.Context, page, pageSize int, unreadOnly bool) (*domain.PaginatedResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	page, pageSize = clampPagination(page, pageSize)

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userCtx.UserID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = mapper.ToNotificationDTO(&notifications[i])
	}

	return paginated(dtos, total, page, pageSize), nil
}

// GetByID returns a notification by ID, verifying ownership
func (s *NotificationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationDTO, error) {
	notification, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToNotificationDTO(notification)
	return &dto, nil
}

// MarkAsRead marks a notification as read
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	notification, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	// Already read, nothing to do
	if notification.IsRead {
		return nil
	}

	if err := s.notificationRepo.MarkAsRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	s.logger.Debug("notification marked as read",
		zap.String("notificationID", id.String()),
		zap.Uint("userID", notification.UserID),
	)
	return nil
}

// MarkAllAsReadForUser marks all notifications for the current user as read
func (s *NotificationService) MarkAllAsReadForUser(ctx context.Context) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}

	updated, err := s.notificationRepo.MarkAllAsRead(ctx, userCtx.UserID)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	s.logger.Info("all notifications marked as read",
		zap.Uint("userID", userCtx.UserID),
		zap.Int64("updated", updated),
	)
	return nil
}

// GetUnreadCount returns the count of unread notifications for the current user
func (s *NotificationService) GetUnreadCount(ctx context.Context) (*domain.UnreadCountDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	count, err := s.notificationRepo.CountUnread(ctx, userCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &domain.UnreadCountDTO{Count: count}, nil
}

func (s *NotificationService) getOwned(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != userCtx.UserID {
		return nil, ErrNotificationNotOwned
	}
	return notification, nil
}
