package mapper

import (
	"encoding/json"
	"sort"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"gorm.io/datatypes"
)

// ToPermitLetterDTO converts PermitLetter to PermitLetterDTO. Items are ordered by
// position and stages follow the approval chain order.
func ToPermitLetterDTO(letter *domain.PermitLetter) domain.PermitLetterDTO {
	dto := domain.PermitLetterDTO{
		ID:                letter.ID,
		LetterNumber:      letter.LetterNumber,
		Direction:         letter.Direction,
		EffectiveDate:     letter.EffectiveDate.Format(domain.DateLayout),
		IssueDate:         letter.IssueDate.Format(domain.DateLayout),
		Division:          letter.Division,
		RequesterName:     letter.RequesterName,
		Badge:             letter.Badge,
		VehicleNumber:     letter.VehicleNumber,
		Company:           letter.Company,
		WorkOrderRef:      letter.WorkOrderRef,
		PreparedBy:        letter.PreparedBy,
		CheckedBy:         letter.CheckedBy,
		ApprovedBy:        letter.ApprovedBy,
		Status:            letter.Status,
		StatusNote:        letter.StatusNote,
		IdentityPhoto:     letter.IdentityPhoto,
		WorkOrderDocument: letter.WorkOrderDocument,
		CreatedBy:         letter.CreatedBy,
		Version:           letter.Version,
		CreatedAt:         letter.CreatedAt,
		UpdatedAt:         letter.UpdatedAt,
	}

	items := make([]domain.PermitLineItem, len(letter.Items))
	copy(items, letter.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	dto.Items = make([]domain.PermitLineItemDTO, len(items))
	for i := range items {
		dto.Items[i] = ToPermitLineItemDTO(&items[i])
	}

	dto.Stages = make([]domain.PermitStageDTO, 0, len(domain.ApprovalChain))
	for _, def := range domain.ApprovalChain {
		stage := domain.PermitStageDTO{
			Stage:    def.Name,
			Order:    def.Order,
			Decision: domain.DecisionPending,
		}
		if rec := letter.Stage(def.Name); rec != nil {
			stage.Decision = rec.Decision
			stage.ActorID = rec.ActorID
			stage.DecidedAt = rec.DecidedAt
			stage.Note = rec.Note
		}
		dto.Stages = append(dto.Stages, stage)
	}

	return dto
}

// ToPermitLineItemDTO converts PermitLineItem to PermitLineItemDTO
func ToPermitLineItemDTO(item *domain.PermitLineItem) domain.PermitLineItemDTO {
	return domain.PermitLineItemDTO{
		Position:  item.Position,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		Remark:    item.Remark,
		Photos:    DecodePhotos(item.Photos),
		UserTag:   item.UserTag,
		SatpamTag: item.SatpamTag,
	}
}

// EncodePhotos stores photo references as a JSON array
func EncodePhotos(photos []string) datatypes.JSON {
	if photos == nil {
		photos = []string{}
	}
	raw, _ := json.Marshal(photos)
	return datatypes.JSON(raw)
}

// DecodePhotos reads photo references, tolerating empty or malformed columns
func DecodePhotos(raw datatypes.JSON) []string {
	photos := []string{}
	if len(raw) == 0 {
		return photos
	}
	_ = json.Unmarshal(raw, &photos)
	return photos
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Division:    user.Division,
		Active:      user.Active,
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:        notification.ID,
		Title:     notification.Title,
		Message:   notification.Message,
		Link:      notification.Link,
		Read:      notification.IsRead,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
}

// ToAuditLogDTO converts AuditLog to AuditLogDTO
func ToAuditLogDTO(log *domain.AuditLog) domain.AuditLogDTO {
	return domain.AuditLogDTO{
		ID:          log.ID,
		UserID:      log.UserID,
		UserName:    log.UserName,
		Action:      log.Action,
		Description: log.Description,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		IPAddress:   log.IPAddress,
		UserAgent:   log.UserAgent,
		RequestID:   log.RequestID,
		PerformedAt: log.PerformedAt,
	}
}
