package domain_test

import (
	"testing"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalChain_Order(t *testing.T) {
	require.Len(t, domain.ApprovalChain, 4)
	for i, def := range domain.ApprovalChain {
		assert.Equal(t, i+1, def.Order)
		assert.Equal(t, i-1, def.Predecessor, "stage %s", def.Name)
	}
}

func TestCanActOnStage(t *testing.T) {
	tests := []struct {
		role    domain.UserRole
		allowed []domain.StageName
	}{
		{domain.RoleAdmin, []domain.StageName{domain.StageUser, domain.StageSatpam, domain.StageAsman, domain.StageManager}},
		{domain.RoleUser, []domain.StageName{domain.StageUser}},
		{domain.RoleSatpam, []domain.StageName{domain.StageSatpam}},
		{domain.RoleAsman, []domain.StageName{domain.StageAsman}},
		{domain.RoleManager, []domain.StageName{domain.StageManager}},
		{domain.RoleStaff, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			for _, def := range domain.ApprovalChain {
				def := def
				expected := false
				for _, s := range tt.allowed {
					if s == def.Name {
						expected = true
					}
				}
				assert.Equal(t, expected, domain.CanActOnStage(tt.role, &def), "stage %s", def.Name)
			}
		})
	}

	assert.False(t, domain.CanActOnStage(domain.RoleAdmin, nil))
}

func TestLookupStage(t *testing.T) {
	idx, def, ok := domain.LookupStage(domain.StageAsman)
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, domain.RoleAsman, def.Role)

	_, _, ok = domain.LookupStage("security")
	assert.False(t, ok)
}

func TestStageDefinition_Allows(t *testing.T) {
	_, user, _ := domain.LookupStage(domain.StageUser)
	assert.True(t, user.Allows(domain.DecisionSesuai))
	assert.True(t, user.Allows(domain.DecisionTidakSesuai))
	assert.False(t, user.Allows(domain.DecisionApproved))
	assert.False(t, user.Allows(domain.DecisionPending))

	_, manager, _ := domain.LookupStage(domain.StageManager)
	assert.True(t, manager.Allows(domain.DecisionRejected))
	assert.False(t, manager.Allows(domain.DecisionSesuai))
}

func TestStageDefinition_ResultingStatus(t *testing.T) {
	_, user, _ := domain.LookupStage(domain.StageUser)
	_, satpam, _ := domain.LookupStage(domain.StageSatpam)
	_, asman, _ := domain.LookupStage(domain.StageAsman)
	_, manager, _ := domain.LookupStage(domain.StageManager)

	assert.Equal(t, domain.PermitStatusPending, user.ResultingStatus(domain.PermitStatusPending, domain.DecisionSesuai))
	assert.Equal(t, domain.PermitStatusReview, satpam.ResultingStatus(domain.PermitStatusPending, domain.DecisionTidakSesuai))
	assert.Equal(t, domain.PermitStatusReview, asman.ResultingStatus(domain.PermitStatusReview, domain.DecisionApproved))
	assert.Equal(t, domain.PermitStatusApproved, manager.ResultingStatus(domain.PermitStatusReview, domain.DecisionApproved))
	assert.Equal(t, domain.PermitStatusRejected, manager.ResultingStatus(domain.PermitStatusReview, domain.DecisionRejected))
}

func TestIsFrozen(t *testing.T) {
	letter := &domain.PermitLetter{Stages: domain.NewStageRecords()}

	for i := range domain.ApprovalChain {
		assert.False(t, domain.IsFrozen(letter, i))
	}

	letter.Stage(domain.StageUser).Decision = domain.DecisionSesuai
	assert.False(t, domain.IsFrozen(letter, 0), "stage 1 stays open until satpam acts")

	letter.Stage(domain.StageSatpam).Decision = domain.DecisionSesuai
	assert.True(t, domain.IsFrozen(letter, 0))
	assert.False(t, domain.IsFrozen(letter, 1))

	letter.Stage(domain.StageManager).Decision = domain.DecisionApproved
	assert.True(t, domain.IsFrozen(letter, 2))
	assert.True(t, domain.IsFrozen(letter, 3))
}

func TestNotifiesCreator(t *testing.T) {
	for _, def := range domain.ApprovalChain {
		def := def
		assert.Equal(t, def.Name == domain.StageManager, def.NotifiesCreator(), "stage %s", def.Name)
	}
}
