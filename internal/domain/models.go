package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Direction is the movement direction of the goods on a permit letter
type Direction string

const (
	DirectionOutbound Direction = "keluar"
	DirectionInbound  Direction = "masuk"
)

// IsValid reports whether d is a known direction
func (d Direction) IsValid() bool {
	return d == DirectionOutbound || d == DirectionInbound
}

// PermitStatus is the aggregate status of a permit letter
type PermitStatus string

const (
	PermitStatusPending  PermitStatus = "pending"
	PermitStatusReview   PermitStatus = "review"
	PermitStatusApproved PermitStatus = "approved"
	PermitStatusRejected PermitStatus = "rejected"
)

// IsValid reports whether s is one of the four aggregate statuses
func (s PermitStatus) IsValid() bool {
	switch s {
	case PermitStatusPending, PermitStatusReview, PermitStatusApproved, PermitStatusRejected:
		return true
	}
	return false
}

// UserRole is the single role held by a user account
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleUser    UserRole = "user"
	RoleStaff   UserRole = "staff"
	RoleManager UserRole = "manager"
	RoleSatpam  UserRole = "satpam"
	RoleAsman   UserRole = "asman"
)

// IsValid reports whether r is a known role
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStaff, RoleManager, RoleSatpam, RoleAsman:
		return true
	}
	return false
}

// User represents an account that can act on permit letters
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	DisplayName  string    `gorm:"type:varchar(100);not null;column:display_name" json:"displayName"`
	Role         UserRole  `gorm:"type:varchar(20);not null;index" json:"role"`
	Division     string    `gorm:"type:varchar(100)" json:"division,omitempty"`
	Active       bool      `gorm:"not null;column:is_active" json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PermitLetter is a surat izin: a request to move goods in or out of the facility
type PermitLetter struct {
	ID                uint         `gorm:"primaryKey"`
	Version           int64        `gorm:"not null;default:1"`
	LetterNumber      string       `gorm:"type:varchar(100);not null;uniqueIndex;column:letter_number"`
	Direction         Direction    `gorm:"type:varchar(10);not null;index"`
	EffectiveDate     time.Time    `gorm:"type:date;not null;column:effective_date"`
	IssueDate         time.Time    `gorm:"type:date;not null;column:issue_date"`
	Division          string       `gorm:"type:varchar(100);not null;index"`
	RequesterName     string       `gorm:"type:varchar(100);not null;column:requester_name"`
	Badge             string       `gorm:"type:varchar(50);not null"`
	VehicleNumber     string       `gorm:"type:varchar(20);not null;column:vehicle_number"`
	Company           string       `gorm:"type:varchar(200);not null"`
	WorkOrderRef      string       `gorm:"type:varchar(100);not null;column:work_order_ref"`
	PreparedBy        string       `gorm:"type:varchar(100);not null;column:prepared_by"`
	CheckedBy         string       `gorm:"type:varchar(100);not null;column:checked_by"`
	ApprovedBy        string       `gorm:"type:varchar(100);not null;column:approved_by"`
	Status            PermitStatus `gorm:"type:varchar(20);not null;index"`
	StatusNote        string       `gorm:"type:text;column:status_note"`
	IdentityPhoto     string       `gorm:"type:varchar(255);column:identity_photo"`
	WorkOrderDocument string       `gorm:"type:varchar(255);column:work_order_document"`
	CreatedBy         uint         `gorm:"not null;index;column:created_by"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Items  []PermitLineItem `gorm:"foreignKey:PermitID;constraint:OnDelete:CASCADE"`
	Stages []PermitStage    `gorm:"foreignKey:PermitID;constraint:OnDelete:CASCADE"`
}

// Stage returns the stage record for name, or nil if the letter has none loaded
func (p *PermitLetter) Stage(name StageName) *PermitStage {
	for i := range p.Stages {
		if p.Stages[i].Stage == name {
			return &p.Stages[i]
		}
	}
	return nil
}

// StageDecision returns the recorded decision for a stage, pending when absent
func (p *PermitLetter) StageDecision(name StageName) Decision {
	if st := p.Stage(name); st != nil {
		return st.Decision
	}
	return DecisionPending
}

// PermitLineItem is one line of goods on a permit letter
type PermitLineItem struct {
	ID        uint           `gorm:"primaryKey"`
	PermitID  uint           `gorm:"not null;uniqueIndex:idx_permit_item_position"`
	Position  int            `gorm:"not null;uniqueIndex:idx_permit_item_position"`
	Name      string         `gorm:"type:varchar(200);not null"`
	Quantity  int            `gorm:"not null"`
	Unit      string         `gorm:"type:varchar(50);not null"`
	Remark    string         `gorm:"type:text"`
	Photos    datatypes.JSON `gorm:"column:photos"`
	UserTag   Decision       `gorm:"type:varchar(20);not null;column:user_tag"`
	SatpamTag Decision       `gorm:"type:varchar(20);not null;column:satpam_tag"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tag returns the item-level tag written by the given stage
func (i *PermitLineItem) Tag(field ItemTagField) Decision {
	switch field {
	case ItemTagUser:
		return i.UserTag
	case ItemTagSatpam:
		return i.SatpamTag
	}
	return ""
}

// PermitStage holds the decision recorded for one approval stage of a letter
type PermitStage struct {
	ID        uint       `gorm:"primaryKey"`
	PermitID  uint       `gorm:"not null;uniqueIndex:idx_permit_stage"`
	Stage     StageName  `gorm:"type:varchar(20);not null;uniqueIndex:idx_permit_stage"`
	Decision  Decision   `gorm:"type:varchar(20);not null"`
	ActorID   *uint      `gorm:"column:actor_id"`
	DecidedAt *time.Time `gorm:"column:decided_at"`
	Note      string     `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Notification is an in-app notice for a single user
type Notification struct {
	ID        uuid.UUID  `gorm:"type:varchar(36);primaryKey"`
	UserID    uint       `gorm:"not null;index"`
	Title     string     `gorm:"type:varchar(200);not null"`
	Message   string     `gorm:"type:varchar(500);not null"`
	Link      string     `gorm:"type:varchar(255)"`
	IsRead    bool       `gorm:"not null;column:is_read;index"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time
}

// BeforeCreate assigns an id when the caller did not
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// AuditAction is the tag recorded on every audit entry
type AuditAction string

const (
	AuditActionCreate         AuditAction = "create"
	AuditActionStageDecision  AuditAction = "stage_decision"
	AuditActionStatusOverride AuditAction = "status_override"
	AuditActionDelete         AuditAction = "delete"
)

// AuditLog is an append-only record of a state-changing action
type AuditLog struct {
	ID          uuid.UUID   `gorm:"type:varchar(36);primaryKey"`
	UserID      uint        `gorm:"not null;index;column:user_id"`
	UserName    string      `gorm:"type:varchar(100);column:user_name"`
	Action      AuditAction `gorm:"type:varchar(30);not null;index"`
	Description string      `gorm:"type:text;not null"`
	EntityType  string      `gorm:"type:varchar(50);column:entity_type;index:idx_audit_entity"`
	EntityID    *uint       `gorm:"column:entity_id;index:idx_audit_entity"`
	IPAddress   string      `gorm:"type:varchar(64);column:ip_address"`
	UserAgent   string      `gorm:"type:text;column:user_agent"`
	RequestID   string      `gorm:"type:varchar(100);column:request_id"`
	PerformedAt time.Time   `gorm:"not null;column:performed_at;index"`
}

// BeforeCreate assigns an id when the caller did not
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// OutboxKind identifies what an outbox event delivers
type OutboxKind string

const (
	OutboxKindNotification OutboxKind = "notification"
	OutboxKindAudit        OutboxKind = "audit"
)

// OutboxEvent is a side effect queued in the same transaction as the state change
// that produced it. The delivered row reuses the event id, so redelivery is a no-op.
type OutboxEvent struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primaryKey"`
	Kind        OutboxKind     `gorm:"type:varchar(20);not null;index"`
	Payload     datatypes.JSON `gorm:"not null"`
	Attempts    int            `gorm:"not null"`
	LastError   string         `gorm:"type:text;column:last_error"`
	DeliveredAt *time.Time     `gorm:"column:delivered_at;index"`
	CreatedAt   time.Time
}

// BeforeCreate assigns an id when the caller did not
func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NotificationPayload is the outbox payload for OutboxKindNotification
type NotificationPayload struct {
	UserID  uint   `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

// AuditPayload is the outbox payload for OutboxKindAudit
type AuditPayload struct {
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
