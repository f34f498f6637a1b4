package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/logger"
	"github.com/adipala-ubp/surat-izin/internal/mapper"
	"github.com/adipala-ubp/surat-izin/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApprovalService drives letters through the approval chain.
//
// Each decision runs in one transaction: the letter row is locked, the version is
// compared and bumped, and the resulting notification and audit events are queued
// in the outbox before commit. Delivery happens after commit.
type ApprovalService struct {
	db            *gorm.DB
	permitRepo    *repository.PermitRepository
	notifications *NotificationService
	audit         *AuditLogService
	outbox        *OutboxService
	logger        *zap.Logger
	now           func() time.Time
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	db *gorm.DB,
	permitRepo *repository.PermitRepository,
	notifications *NotificationService,
	audit *AuditLogService,
	outbox *OutboxService,
	logger *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		db:            db,
		permitRepo:    permitRepo,
		notifications: notifications,
		audit:         audit,
		outbox:        outbox,
		logger:        logger,
		now:           time.Now,
	}
}

// SubmitApproval records the caller's decision on one stage of a letter
func (s *ApprovalService) SubmitApproval(ctx context.Context, letterID uint, stage domain.StageName, req *domain.SubmitApprovalRequest) (*domain.PermitLetterDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", ErrInvalidInput)
	}
	log := logger.WithUser(s.logger, userCtx.UserID, string(userCtx.Role))

	var events []domain.OutboxEvent
	var letterNumber string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permits := s.permitRepo.WithTx(tx)

		letter, err := permits.GetForUpdate(ctx, letterID)
		if err != nil {
			return translateNotFound(err, letterID)
		}
		letterNumber = letter.LetterNumber

		idx, def, ok := domain.LookupStage(stage)
		if !ok {
			return fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, stage)
		}
		if !domain.CanActOnStage(userCtx.Role, def) {
			return fmt.Errorf("%w: role %s may not act on stage %s", ErrForbidden, userCtx.Role, def.Name)
		}
		if def.Predecessor >= 0 {
			prev := domain.ApprovalChain[def.Predecessor]
			if letter.StageDecision(prev.Name) == domain.DecisionPending {
				return fmt.Errorf("%w: stage %s must be decided before %s", ErrPreconditionNotMet, prev.Name, def.Name)
			}
		}
		if domain.IsFrozen(letter, idx) {
			return fmt.Errorf("%w: stage %s", ErrStageFrozen, def.Name)
		}
		if !def.Allows(req.Decision) {
			return fmt.Errorf("%w: decision %q is not allowed at stage %s", ErrInvalidInput, req.Decision, def.Name)
		}
		tags, err := resolveItemTags(def, letter.Items, req.ItemDecisions)
		if err != nil {
			return err
		}

		status := def.ResultingStatus(letter.Status, req.Decision)
		updated, err := permits.UpdateWithVersion(ctx, letter.ID, letter.Version, map[string]interface{}{
			"status": status,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if !updated {
			return fmt.Errorf("%w: permit %d was modified concurrently", ErrConflict, letter.ID)
		}

		if err := permits.UpdateStage(ctx, letter.ID, def.Name, req.Decision, userCtx.UserID, s.now().UTC(), req.Note); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		for i := range letter.Items {
			item := &letter.Items[i]
			if tag, ok := tags[item.Position]; ok && tag != item.Tag(def.ItemTag) {
				if err := permits.UpdateItemTag(ctx, item.ID, def.ItemTag, tag); err != nil {
					return fmt.Errorf("%w: %v", ErrPersistence, err)
				}
			}
		}

		notices, err := s.queueStageNotices(ctx, tx, def, letter, req.Decision, userCtx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		events = append(events, notices...)

		entry, err := s.audit.WithTx(tx).RecordForPermit(ctx, userCtx, domain.AuditActionStageDecision, letter.ID,
			fmt.Sprintf("Tahap %s surat %s: %s", def.Name, letter.LetterNumber, req.Decision))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		events = append(events, *entry)
		return nil
	})
	if err != nil {
		log.Info("approval rejected",
			zap.Uint("permit_id", letterID),
			zap.String("stage", string(stage)),
			zap.Error(err),
		)
		return nil, err
	}

	log = logger.WithPermit(log, letterID, letterNumber)
	log.Info("stage decided",
		zap.String("stage", string(stage)),
		zap.String("decision", string(req.Decision)),
	)

	s.deliver(ctx, log, events)
	return s.reload(ctx, letterID)
}

// OverrideStatus sets the aggregate status directly without touching stage records
func (s *ApprovalService) OverrideStatus(ctx context.Context, letterID uint, req *domain.OverrideStatusRequest) (*domain.PermitLetterDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", ErrInvalidInput)
	}
	log := logger.WithUser(s.logger, userCtx.UserID, string(userCtx.Role))

	var events []domain.OutboxEvent
	var letterNumber string
	var previous domain.PermitStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permits := s.permitRepo.WithTx(tx)

		letter, err := permits.GetForUpdate(ctx, letterID)
		if err != nil {
			return translateNotFound(err, letterID)
		}
		letterNumber = letter.LetterNumber
		previous = letter.Status

		if !domain.CanOverrideStatus(userCtx.Role) {
			return fmt.Errorf("%w: role %s may not override status", ErrForbidden, userCtx.Role)
		}
		if !req.Status.IsValid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
		}

		updated, err := permits.UpdateWithVersion(ctx, letter.ID, letter.Version, map[string]interface{}{
			"status":      req.Status,
			"status_note": req.Note,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if !updated {
			return fmt.Errorf("%w: permit %d was modified concurrently", ErrConflict, letter.ID)
		}

		notice, err := s.notifications.WithTx(tx).Notify(ctx, letter.CreatedBy,
			"Status Surat Diperbarui",
			fmt.Sprintf("Status surat %s diubah menjadi %s oleh %s", letter.LetterNumber, req.Status, actorName(userCtx)),
			permitLink(letter.ID),
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		events = append(events, *notice)

		entry, err := s.audit.WithTx(tx).RecordForPermit(ctx, userCtx, domain.AuditActionStatusOverride, letter.ID,
			fmt.Sprintf("Mengubah status surat %s dari %s menjadi %s", letter.LetterNumber, letter.Status, req.Status))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		events = append(events, *entry)
		return nil
	})
	if err != nil {
		log.Info("status override rejected",
			zap.Uint("permit_id", letterID),
			zap.Error(err),
		)
		return nil, err
	}

	log = logger.WithPermit(log, letterID, letterNumber)
	log.Info("status overridden",
		zap.String("from", string(previous)),
		zap.String("to", string(req.Status)),
	)

	s.deliver(ctx, log, events)
	return s.reload(ctx, letterID)
}

// queueStageNotices queues the notices that follow a stage decision: the next
// stage's role holders, or the creator once the last stage is decided
func (s *ApprovalService) queueStageNotices(ctx context.Context, tx *gorm.DB, def *domain.StageDefinition, letter *domain.PermitLetter, decision domain.Decision, user *auth.UserContext) ([]domain.OutboxEvent, error) {
	notifications := s.notifications.WithTx(tx)
	link := permitLink(letter.ID)

	if def.NotifiesCreator() {
		message := fmt.Sprintf("Surat %s telah %s oleh %s", letter.LetterNumber, decisionLabel(decision), actorName(user))
		event, err := notifications.Notify(ctx, letter.CreatedBy, def.NotificationTitle, message, link)
		if err != nil {
			return nil, err
		}
		return []domain.OutboxEvent{*event}, nil
	}

	message := fmt.Sprintf("Surat %s (%s) telah diperiksa tahap %s oleh %s: %s",
		letter.LetterNumber, letter.RequesterName, def.Name, actorName(user), decisionLabel(decision))
	return notifications.NotifyRoleHolders(ctx, def.NotifyRoles, def.NotificationTitle, message, link, user.UserID)
}

func (s *ApprovalService) deliver(ctx context.Context, log *zap.Logger, events []domain.OutboxEvent) {
	result := s.outbox.Deliver(ctx, events)
	if result.Failed > 0 {
		log.Warn("side effects left for retry",
			zap.Int("delivered", result.Delivered),
			zap.Int("failed", result.Failed),
		)
	}
}

// reload returns the committed state. A failed read here does not undo the commit,
// so it is reported as a persistence error without retrying the decision.
func (s *ApprovalService) reload(ctx context.Context, letterID uint) (*domain.PermitLetterDTO, error) {
	letter, err := s.permitRepo.GetByID(ctx, letterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrPermitNotFound, letterID)
		}
		return nil, fmt.Errorf("%w: failed to reload permit: %v", ErrPersistence, err)
	}
	dto := mapper.ToPermitLetterDTO(letter)
	return &dto, nil
}

// resolveItemTags returns the new tag for every item, keyed by position. Items the
// caller did not mention go back to pending.
func resolveItemTags(def *domain.StageDefinition, items []domain.PermitLineItem, decisions map[int]domain.Decision) (map[int]domain.Decision, error) {
	if def.ItemTag == domain.ItemTagNone {
		if len(decisions) > 0 {
			return nil, fmt.Errorf("%w: stage %s does not take item decisions", ErrInvalidInput, def.Name)
		}
		return nil, nil
	}

	positions := make(map[int]bool, len(items))
	for _, item := range items {
		positions[item.Position] = true
	}
	for pos, d := range decisions {
		if !positions[pos] {
			return nil, fmt.Errorf("%w: no item at position %d", ErrInvalidInput, pos)
		}
		if !d.IsValidItemTag() {
			return nil, fmt.Errorf("%w: item decision %q is not allowed", ErrInvalidInput, d)
		}
	}

	tags := make(map[int]domain.Decision, len(items))
	for _, item := range items {
		tag, ok := decisions[item.Position]
		if !ok {
			tag = domain.DecisionPending
		}
		tags[item.Position] = tag
	}
	return tags, nil
}

func permitLink(id uint) string {
	return fmt.Sprintf("/permits/%d", id)
}

func actorName(user *auth.UserContext) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Username
}

func decisionLabel(d domain.Decision) string {
	switch d {
	case domain.DecisionSesuai:
		return "sesuai"
	case domain.DecisionTidakSesuai:
		return "tidak sesuai"
	case domain.DecisionApproved:
		return "disetujui"
	case domain.DecisionRejected:
		return "ditolak"
	}
	return string(d)
}
