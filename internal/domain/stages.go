package domain

// StageName identifies one step of the approval chain
type StageName string

const (
	StageUser    StageName = "user"
	StageSatpam  StageName = "satpam"
	StageAsman   StageName = "asman"
	StageManager StageName = "manager"
)

// Decision is a value recorded on a stage or on a line item tag
type Decision string

const (
	DecisionPending     Decision = "pending"
	DecisionSesuai      Decision = "sesuai"
	DecisionTidakSesuai Decision = "tidak_sesuai"
	DecisionApproved    Decision = "approved"
	DecisionRejected    Decision = "rejected"
)

// IsValidItemTag reports whether d may be stored on a line item tag
func (d Decision) IsValidItemTag() bool {
	return d == DecisionPending || d == DecisionSesuai || d == DecisionTidakSesuai
}

// ItemTagField names the line item column a stage writes, if any
type ItemTagField string

const (
	ItemTagNone   ItemTagField = ""
	ItemTagUser   ItemTagField = "user_tag"
	ItemTagSatpam ItemTagField = "satpam_tag"
)

// StatusEffect describes what a stage decision does to the aggregate status
type StatusEffect int

const (
	// EffectNone leaves the aggregate status untouched
	EffectNone StatusEffect = iota
	// EffectReview moves the aggregate status to review
	EffectReview
	// EffectFromDecision copies the decision (approved/rejected) into the aggregate status
	EffectFromDecision
)

// StageDefinition is one row of the approval chain
type StageDefinition struct {
	Name      StageName
	Order     int
	Role      UserRole
	Decisions []Decision
	// Predecessor is the index of the stage that must have acted first, -1 for none
	Predecessor int
	Effect      StatusEffect
	ItemTag     ItemTagField
	// NotifyRoles receive a notice when this stage is decided. Empty means the
	// letter creator is notified instead.
	NotifyRoles       []UserRole
	NotificationTitle string
}

// ApprovalChain is the ordered list of approval stages. Adding a stage is a data change here.
var ApprovalChain = []StageDefinition{
	{
		Name:              StageUser,
		Order:             1,
		Role:              RoleUser,
		Decisions:         []Decision{DecisionSesuai, DecisionTidakSesuai},
		Predecessor:       -1,
		Effect:            EffectNone,
		ItemTag:           ItemTagUser,
		NotifyRoles:       []UserRole{RoleSatpam, RoleAdmin},
		NotificationTitle: "Surat Menunggu Pemeriksaan Satpam",
	},
	{
		Name:              StageSatpam,
		Order:             2,
		Role:              RoleSatpam,
		Decisions:         []Decision{DecisionSesuai, DecisionTidakSesuai},
		Predecessor:       0,
		Effect:            EffectReview,
		ItemTag:           ItemTagSatpam,
		NotifyRoles:       []UserRole{RoleAsman, RoleAdmin},
		NotificationTitle: "Surat Menunggu Persetujuan Asman",
	},
	{
		Name:              StageAsman,
		Order:             3,
		Role:              RoleAsman,
		Decisions:         []Decision{DecisionApproved, DecisionRejected},
		Predecessor:       1,
		Effect:            EffectNone,
		NotifyRoles:       []UserRole{RoleManager, RoleAdmin},
		NotificationTitle: "Surat Menunggu Persetujuan Manager",
	},
	{
		Name:              StageManager,
		Order:             4,
		Role:              RoleManager,
		Decisions:         []Decision{DecisionApproved, DecisionRejected},
		Predecessor:       2,
		Effect:            EffectFromDecision,
		NotificationTitle: "Surat Final",
	},
}

// LookupStage returns the index and definition of a stage by name
func LookupStage(name StageName) (int, *StageDefinition, bool) {
	for i := range ApprovalChain {
		if ApprovalChain[i].Name == name {
			return i, &ApprovalChain[i], true
		}
	}
	return -1, nil, false
}

// CanActOnStage is the role authorization gate: admin acts anywhere, every other
// role only on the stage bound to it.
func CanActOnStage(role UserRole, stage *StageDefinition) bool {
	if stage == nil {
		return false
	}
	return role == RoleAdmin || role == stage.Role
}

// Allows reports whether decision is in the stage's allowed set
func (s *StageDefinition) Allows(decision Decision) bool {
	for _, d := range s.Decisions {
		if d == decision {
			return true
		}
	}
	return false
}

// ResultingStatus returns the aggregate status after this stage records decision
func (s *StageDefinition) ResultingStatus(current PermitStatus, decision Decision) PermitStatus {
	switch s.Effect {
	case EffectReview:
		return PermitStatusReview
	case EffectFromDecision:
		return PermitStatus(decision)
	}
	return current
}

// NotifiesCreator reports whether deciding this stage notifies the letter creator
func (s *StageDefinition) NotifiesCreator() bool {
	return len(s.NotifyRoles) == 0
}

// IsFrozen reports whether the stage at index idx may no longer be decided on letter:
// a stage freezes once its successor records a non-pending decision, and the last
// stage freezes once it is decided itself.
func IsFrozen(letter *PermitLetter, idx int) bool {
	if idx < 0 || idx >= len(ApprovalChain) {
		return false
	}
	if idx == len(ApprovalChain)-1 {
		return letter.StageDecision(ApprovalChain[idx].Name) != DecisionPending
	}
	return letter.StageDecision(ApprovalChain[idx+1].Name) != DecisionPending
}

// CanOverrideStatus reports whether role may set the aggregate status directly
func CanOverrideStatus(role UserRole) bool {
	return role == RoleAdmin || role == RoleManager
}

// CanDeletePermit reports whether role may delete a permit letter
func CanDeletePermit(role UserRole) bool {
	return role == RoleAdmin || role == RoleManager
}

// NewStageRecords returns one pending record per stage of the approval chain
func NewStageRecords() []PermitStage {
	stages := make([]PermitStage, len(ApprovalChain))
	for i, def := range ApprovalChain {
		stages[i] = PermitStage{Stage: def.Name, Decision: DecisionPending}
	}
	return stages
}
