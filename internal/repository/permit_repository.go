package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PermitFilters contains filter options for listing permit letters
type PermitFilters struct {
	Direction *domain.Direction
	Status    *domain.PermitStatus
	Division  string
	CreatedBy *uint
	Search    string
	Sort      SortConfig
}

type PermitRepository struct {
	db *gorm.DB
}

func NewPermitRepository(db *gorm.DB) *PermitRepository {
	return &PermitRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *PermitRepository) WithTx(tx *gorm.DB) *PermitRepository {
	return &PermitRepository{db: tx}
}

// Create inserts a letter together with its line items and stage records
func (r *PermitRepository) Create(ctx context.Context, letter *domain.PermitLetter) error {
	return r.db.WithContext(ctx).Create(letter).Error
}

func (r *PermitRepository) GetByID(ctx context.Context, id uint) (*domain.PermitLetter, error) {
	var letter domain.PermitLetter
	err := r.withChildren(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&letter).Error
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

// GetForUpdate loads a letter and locks its row until the surrounding transaction ends.
// Must be called on a repository bound to a transaction.
func (r *PermitRepository) GetForUpdate(ctx context.Context, id uint) (*domain.PermitLetter, error) {
	var letter domain.PermitLetter
	err := r.withChildren(r.db.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&letter).Error
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

func (r *PermitRepository) GetByLetterNumber(ctx context.Context, letterNumber string) (*domain.PermitLetter, error) {
	var letter domain.PermitLetter
	err := r.withChildren(r.db.WithContext(ctx)).
		Where("letter_number = ?", letterNumber).
		First(&letter).Error
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

func (r *PermitRepository) ExistsByLetterNumber(ctx context.Context, letterNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.PermitLetter{}).
		Where("letter_number = ?", letterNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *PermitRepository) List(ctx context.Context, page, pageSize int, filters *PermitFilters) ([]domain.PermitLetter, int64, error) {
	var letters []domain.PermitLetter
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.PermitLetter{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := SortConfig{}
	if filters != nil {
		sort = filters.Sort
	}

	offset := (page - 1) * pageSize
	err := r.withChildren(query).
		Order(BuildOrderClause(sort, permitSortFields, "created_at")).
		Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&letters).Error

	return letters, total, err
}

// UpdateWithVersion applies updates only if the stored version still equals version,
// and bumps the version. It reports false when another writer got there first.
func (r *PermitRepository) UpdateWithVersion(ctx context.Context, id uint, version int64, updates map[string]interface{}) (bool, error) {
	fields := make(map[string]interface{}, len(updates)+2)
	for k, v := range updates {
		fields[k] = v
	}
	fields["version"] = gorm.Expr("version + 1")
	fields["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&domain.PermitLetter{}).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdateStage records a decision on one stage of a letter
func (r *PermitRepository) UpdateStage(ctx context.Context, permitID uint, stage domain.StageName, decision domain.Decision, actorID uint, decidedAt time.Time, note string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.PermitStage{}).
		Where("permit_id = ? AND stage = ?", permitID, stage).
		Updates(map[string]interface{}{
			"decision":   decision,
			"actor_id":   actorID,
			"decided_at": decidedAt,
			"note":       note,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("stage %s of permit %d: %w", stage, permitID, gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateItemTag sets a single tag column on one line item
func (r *PermitRepository) UpdateItemTag(ctx context.Context, itemID uint, field domain.ItemTagField, value domain.Decision) error {
	if field != domain.ItemTagUser && field != domain.ItemTagSatpam {
		return fmt.Errorf("unknown item tag field %q", field)
	}
	return r.db.WithContext(ctx).
		Model(&domain.PermitLineItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			string(field): value,
			"updated_at":  time.Now().UTC(),
		}).Error
}

// Delete removes a letter with its line items and stage records.
// Must be called on a repository bound to a transaction.
func (r *PermitRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("permit_id = ?", id).Delete(&domain.PermitLineItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("permit_id = ?", id).Delete(&domain.PermitStage{}).Error; err != nil {
		return err
	}
	result := db.Delete(&domain.PermitLetter{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err means the record does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (r *PermitRepository) withChildren(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Stages")
}

func (r *PermitRepository) applyFilters(query *gorm.DB, filters *PermitFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Direction != nil {
		query = query.Where("direction = ?", *filters.Direction)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Division != "" {
		query = query.Where("division = ?", filters.Division)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(letter_number) LIKE ? OR LOWER(requester_name) LIKE ? OR LOWER(company) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	return query
}
