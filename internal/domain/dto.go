package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format of letter dates
const DateLayout = "2006-01-02"

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

type PermitLetterDTO struct {
	ID                uint                `json:"id"`
	LetterNumber      string              `json:"letterNumber"`
	Direction         Direction           `json:"direction"`
	EffectiveDate     string              `json:"effectiveDate"`
	IssueDate         string              `json:"issueDate"`
	Division          string              `json:"division"`
	RequesterName     string              `json:"requesterName"`
	Badge             string              `json:"badge"`
	VehicleNumber     string              `json:"vehicleNumber"`
	Company           string              `json:"company"`
	WorkOrderRef      string              `json:"workOrderRef"`
	PreparedBy        string              `json:"preparedBy"`
	CheckedBy         string              `json:"checkedBy"`
	ApprovedBy        string              `json:"approvedBy"`
	Status            PermitStatus        `json:"status"`
	StatusNote        string              `json:"statusNote,omitempty"`
	IdentityPhoto     string              `json:"identityPhoto,omitempty"`
	WorkOrderDocument string              `json:"workOrderDocument,omitempty"`
	CreatedBy         uint                `json:"createdBy"`
	Version           int64               `json:"version"`
	Items             []PermitLineItemDTO `json:"items"`
	Stages            []PermitStageDTO    `json:"stages"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

type PermitLineItemDTO struct {
	Position  int      `json:"position"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	Unit      string   `json:"unit"`
	Remark    string   `json:"remark,omitempty"`
	Photos    []string `json:"photos"`
	UserTag   Decision `json:"userTag"`
	SatpamTag Decision `json:"satpamTag"`
}

type PermitStageDTO struct {
	Stage     StageName  `json:"stage"`
	Order     int        `json:"order"`
	Decision  Decision   `json:"decision"`
	ActorID   *uint      `json:"actorId,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
	Note      string     `json:"note,omitempty"`
}

type NotificationDTO struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// UnreadCountDTO is the notification badge payload
type UnreadCountDTO struct {
	Count int `json:"count"`
}

type AuditLogDTO struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uint        `json:"userId"`
	UserName    string      `json:"userName,omitempty"`
	Action      AuditAction `json:"action"`
	Description string      `json:"description"`
	EntityType  string      `json:"entityType,omitempty"`
	EntityID    *uint       `json:"entityId,omitempty"`
	IPAddress   string      `json:"ipAddress,omitempty"`
	UserAgent   string      `json:"userAgent,omitempty"`
	RequestID   string      `json:"requestId,omitempty"`
	PerformedAt time.Time   `json:"performedAt"`
}

type UserDTO struct {
	ID          uint     `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Role        UserRole `json:"role"`
	Division    string   `json:"division,omitempty"`
	Active      bool     `json:"active"`
}

// OutboxDispatchResultDTO reports a forced outbox delivery pass
type OutboxDispatchResultDTO struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

// Request DTOs

type CreatePermitRequest struct {
	LetterNumber      string                    `json:"letterNumber" validate:"required,max=100"`
	Direction         Direction                 `json:"direction" validate:"required,oneof=keluar masuk"`
	EffectiveDate     string                    `json:"effectiveDate" validate:"required,datetime=2006-01-02"`
	IssueDate         string                    `json:"issueDate" validate:"required,datetime=2006-01-02"`
	Division          string                    `json:"division" validate:"required,max=100"`
	RequesterName     string                    `json:"requesterName" validate:"required,max=100"`
	Badge             string                    `json:"badge" validate:"required,max=50"`
	VehicleNumber     string                    `json:"vehicleNumber" validate:"required,max=20"`
	Company           string                    `json:"company" validate:"required,max=200"`
	WorkOrderRef      string                    `json:"workOrderRef" validate:"required,max=100"`
	PreparedBy        string                    `json:"preparedBy" validate:"required,max=100"`
	CheckedBy         string                    `json:"checkedBy" validate:"required,max=100"`
	ApprovedBy        string                    `json:"approvedBy" validate:"required,max=100"`
	IdentityPhoto     string                    `json:"identityPhoto,omitempty" validate:"max=255"`
	WorkOrderDocument string                    `json:"workOrderDocument,omitempty" validate:"max=255"`
	Items             []CreatePermitItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreatePermitItemRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Quantity int      `json:"quantity" validate:"gte=1"`
	Unit     string   `json:"unit" validate:"required,max=50"`
	Remark   string   `json:"remark,omitempty"`
	Photos   []string `json:"photos,omitempty" validate:"max=10,dive,max=255"`
}

// SubmitApprovalRequest carries one stage decision. ItemDecisions is keyed by item
// position and only accepted at stages that tag line items.
type SubmitApprovalRequest struct {
	Decision      Decision         `json:"decision" validate:"required"`
	Note          string           `json:"note,omitempty" validate:"max=1000"`
	ItemDecisions map[int]Decision `json:"itemDecisions,omitempty"`
}

type OverrideStatusRequest struct {
	Status PermitStatus `json:"status" validate:"required"`
	Note   string       `json:"note,omitempty" validate:"max=1000"`
}
