package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/mapper"
	"github.com/adipala-ubp/surat-izin/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService exposes account lookups
type UserService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Me returns the account behind the current request. The API key principal has no
// row and is described from its context instead.
func (s *UserService) Me(ctx context.Context) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if userCtx.IsSystem() {
		return &domain.UserDTO{
			ID:          userCtx.UserID,
			Username:    userCtx.Username,
			DisplayName: userCtx.DisplayName,
			Role:        userCtx.Role,
			Active:      true,
		}, nil
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// List returns user accounts, optionally narrowed to one role
func (s *UserService) List(ctx context.Context, role *domain.UserRole, activeOnly bool) ([]domain.UserDTO, error) {
	if role != nil && !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *role)
	}
	users, err := s.userRepo.List(ctx, role, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos, nil
}
