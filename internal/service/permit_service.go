package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/logger"
	"github.com/adipala-ubp/surat-izin/internal/mapper"
	"github.com/adipala-ubp/surat-izin/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PermitService handles creating, reading and deleting permit letters
type PermitService struct {
	db         *gorm.DB
	permitRepo *repository.PermitRepository
	audit      *AuditLogService
	outbox     *OutboxService
	logger     *zap.Logger
}

// NewPermitService creates a new PermitService
func NewPermitService(
	db *gorm.DB,
	permitRepo *repository.PermitRepository,
	audit *AuditLogService,
	outbox *OutboxService,
	logger *zap.Logger,
) *PermitService {
	return &PermitService{
		db:         db,
		permitRepo: permitRepo,
		audit:      audit,
		outbox:     outbox,
		logger:     logger,
	}
}

// Create files a new letter. Every stage and item tag starts pending.
func (s *PermitService) Create(ctx context.Context, req *domain.CreatePermitRequest) (*domain.PermitLetterDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	letter, err := newPermitLetter(req, userCtx.UserID)
	if err != nil {
		return nil, err
	}

	var events []domain.OutboxEvent
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permits := s.permitRepo.WithTx(tx)

		exists, err := permits.ExistsByLetterNumber(ctx, letter.LetterNumber)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if exists {
			return fmt.Errorf("%w: letter number %s already exists", ErrConflict, letter.LetterNumber)
		}

		if err := permits.Create(ctx, letter); err != nil {
			return fmt.Errorf("%w: failed to create permit letter: %v", ErrPersistence, err)
		}

		event, err := s.audit.WithTx(tx).RecordForPermit(ctx, userCtx, domain.AuditActionCreate, letter.ID,
			fmt.Sprintf("Membuat surat izin %s (%s)", letter.LetterNumber, letter.Direction))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		events = append(events, *event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.outbox.Deliver(ctx, events)

	logger.WithPermit(s.logger, letter.ID, letter.LetterNumber).Info("permit letter created",
		zap.Uint("created_by", userCtx.UserID),
		zap.Int("items", len(letter.Items)),
	)

	dto := mapper.ToPermitLetterDTO(letter)
	return &dto, nil
}

// GetByID returns a letter with its items and stage records
func (s *PermitService) GetByID(ctx context.Context, id uint) (*domain.PermitLetterDTO, error) {
	letter, err := s.permitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, id)
	}
	dto := mapper.ToPermitLetterDTO(letter)
	return &dto, nil
}

// GetByLetterNumber looks a letter up by its number
func (s *PermitService) GetByLetterNumber(ctx context.Context, letterNumber string) (*domain.PermitLetterDTO, error) {
	letterNumber = strings.TrimSpace(letterNumber)
	if letterNumber == "" {
		return nil, fmt.Errorf("%w: letter number is required", ErrInvalidInput)
	}
	letter, err := s.permitRepo.GetByLetterNumber(ctx, letterNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPermitNotFound, letterNumber)
		}
		return nil, fmt.Errorf("failed to get permit letter: %w", err)
	}
	dto := mapper.ToPermitLetterDTO(letter)
	return &dto, nil
}

// List returns a page of letters, newest first
func (s *PermitService) List(ctx context.Context, page, pageSize int, filters *repository.PermitFilters) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPagination(page, pageSize)

	letters, total, err := s.permitRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list permit letters: %w", err)
	}

	dtos := make([]domain.PermitLetterDTO, len(letters))
	for i := range letters {
		dtos[i] = mapper.ToPermitLetterDTO(&letters[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

// Delete removes a letter. Notifications and audit entries that mention it are kept.
func (s *PermitService) Delete(ctx context.Context, id uint) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}

	var events []domain.OutboxEvent
	var letterNumber string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permits := s.permitRepo.WithTx(tx)

		letter, err := permits.GetForUpdate(ctx, id)
		if err != nil {
			return translateNotFound(err, id)
		}
		if !domain.CanDeletePermit(userCtx.Role) {
			return fmt.Errorf("%w: role %s may not delete permit letters", ErrForbidden, userCtx.Role)
		}
		letterNumber = letter.LetterNumber

		if err := permits.Delete(ctx, id); err != nil {
			return fmt.Errorf("%w: failed to delete permit letter: %v", ErrPersistence, err)
		}

		event, err := s.audit.WithTx(tx).RecordForPermit(ctx, userCtx, domain.AuditActionDelete, id,
			fmt.Sprintf("Menghapus surat izin %s", letter.LetterNumber))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		events = append(events, *event)
		return nil
	})
	if err != nil {
		return err
	}

	s.outbox.Deliver(ctx, events)

	logger.WithPermit(s.logger, id, letterNumber).Info("permit letter deleted",
		zap.Uint("deleted_by", userCtx.UserID),
	)
	return nil
}

func newPermitLetter(req *domain.CreatePermitRequest, createdBy uint) (*domain.PermitLetter, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", ErrInvalidInput)
	}
	if !req.Direction.IsValid() {
		return nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, req.Direction)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}
	effective, err := time.Parse(domain.DateLayout, req.EffectiveDate)
	if err != nil {
		return nil, fmt.Errorf("%w: effective date must be YYYY-MM-DD", ErrInvalidInput)
	}
	issued, err := time.Parse(domain.DateLayout, req.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: issue date must be YYYY-MM-DD", ErrInvalidInput)
	}

	letter := &domain.PermitLetter{
		Version:           1,
		LetterNumber:      strings.TrimSpace(req.LetterNumber),
		Direction:         req.Direction,
		EffectiveDate:     effective,
		IssueDate:         issued,
		Division:          req.Division,
		RequesterName:     req.RequesterName,
		Badge:             req.Badge,
		VehicleNumber:     req.VehicleNumber,
		Company:           req.Company,
		WorkOrderRef:      req.WorkOrderRef,
		PreparedBy:        req.PreparedBy,
		CheckedBy:         req.CheckedBy,
		ApprovedBy:        req.ApprovedBy,
		Status:            domain.PermitStatusPending,
		IdentityPhoto:     req.IdentityPhoto,
		WorkOrderDocument: req.WorkOrderDocument,
		CreatedBy:         createdBy,
		Stages:            domain.NewStageRecords(),
		Items:             make([]domain.PermitLineItem, len(req.Items)),
	}
	if letter.LetterNumber == "" {
		return nil, fmt.Errorf("%w: letter number is required", ErrInvalidInput)
	}

	for i, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d quantity must be at least 1", ErrInvalidInput, i)
		}
		letter.Items[i] = domain.PermitLineItem{
			Position:  i,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			Remark:    item.Remark,
			Photos:    mapper.EncodePhotos(item.Photos),
			UserTag:   domain.DecisionPending,
			SatpamTag: domain.DecisionPending,
		}
	}
	return letter, nil
}

func translateNotFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: id %d", ErrPermitNotFound, id)
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
