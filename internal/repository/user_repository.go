package repository

import (
	"context"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActiveByRoles returns every active user holding one of roles
func (r *UserRepository) ListActiveByRoles(ctx context.Context, roles []domain.UserRole) ([]domain.User, error) {
	var users []domain.User
	if len(roles) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND role IN ?", true, roles).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) List(ctx context.Context, role *domain.UserRole, activeOnly bool) ([]domain.User, error) {
	var users []domain.User
	query := r.db.WithContext(ctx).Model(&domain.User{})
	if role != nil {
		query = query.Where("role = ?", *role)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("display_name ASC").Find(&users).Error
	return users, err
}
