package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/service"
	"github.com/adipala-ubp/surat-izin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalService_FullChainToApproved(t *testing.T) {
	env := newTestEnv(t)
	creator := env.user("staff01")

	created, err := env.permits.Create(testutil.ContextWithUser(creator), validCreateRequest("100.SJ/05/ADPPGU/2024"))
	require.NoError(t, err)
	id := created.ID

	steps := []struct {
		actor    string
		stage    domain.StageName
		req      *domain.SubmitApprovalRequest
		expected domain.PermitStatus
	}{
		{"user01", domain.StageUser, &domain.SubmitApprovalRequest{Decision: domain.DecisionSesuai, ItemDecisions: map[int]domain.Decision{0: domain.DecisionSesuai, 1: domain.DecisionSesuai}}, domain.PermitStatusPending},
		{"satpam01", domain.StageSatpam, &domain.SubmitApprovalRequest{Decision: domain.DecisionSesuai, ItemDecisions: map[int]domain.Decision{0: domain.DecisionSesuai}}, domain.PermitStatusReview},
		{"asman01", domain.StageAsman, decide(domain.DecisionApproved), domain.PermitStatusReview},
		{"manager01", domain.StageManager, &domain.SubmitApprovalRequest{Decision: domain.DecisionApproved, Note: "lanjut"}, domain.PermitStatusApproved},
	}

	for _, step := range steps {
		dto, err := env.approvals.SubmitApproval(testutil.ContextWithUser(env.user(step.actor)), id, step.stage, step.req)
		require.NoError(t, err, "stage %s", step.stage)
		assert.Equal(t, step.expected, dto.Status, "after stage %s", step.stage)
	}

	letter := env.reload(t, id)
	assert.Equal(t, domain.PermitStatusApproved, letter.Status)
	assert.Equal(t, int64(5), letter.Version)
	for _, def := range domain.ApprovalChain {
		assert.NotEqual(t, domain.DecisionPending, letter.StageDecision(def.Name))
	}
	manager := letter.Stage(domain.StageManager)
	require.NotNil(t, manager.ActorID)
	assert.Equal(t, env.user("manager01").ID, *manager.ActorID)
	assert.Equal(t, "lanjut", manager.Note)
	assert.Equal(t, domain.DecisionSesuai, letter.Items[1].UserTag)
	assert.Equal(t, domain.DecisionPending, letter.Items[1].SatpamTag)

	finals := 0
	for _, n := range env.notificationsFor(t, creator.ID) {
		if n.Title == "Surat Final" {
			finals++
			assert.Equal(t, fmt.Sprintf("/permits/%d", id), n.Link)
		}
	}
	assert.Equal(t, 1, finals)

	audits := env.auditsFor(t, id)
	require.Len(t, audits, 5)
	assert.Equal(t, domain.AuditActionCreate, audits[0].Action)
	for _, a := range audits[1:] {
		assert.Equal(t, domain.AuditActionStageDecision, a.Action)
		assert.Equal(t, "127.0.0.1", a.IPAddress)
	}

	pending, err := env.outbox.PendingCount(testutil.ContextWithUser(creator))
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestApprovalService_PreconditionNotMet(t *testing.T) {
	env := newTestEnv(t)
	letter := env.newLetter(t, 1)

	_, err := env.approvals.SubmitApproval(testutil.ContextWithUser(env.user("satpam01")), letter.ID, domain.StageSatpam, decide(domain.DecisionSesuai))
	assert.ErrorIs(t, err, service.ErrPreconditionNotMet)

	_, err = env.approvals.SubmitApproval(testutil.ContextWithUser(env.user("admin")), letter.ID, domain.StageManager, decide(domain.DecisionApproved))
	assert.ErrorIs(t, err, service.ErrPreconditionNotMet)

	after := env.reload(t, letter.ID)
	assert.Equal(t, letter.Version, after.Version)
	assert.Equal(t, domain.PermitStatusPending, after.Status)
	assert.Equal(t, domain.DecisionPending, after.StageDecision(domain.StageSatpam))
	assert.Empty(t, env.auditsFor(t, letter.ID))
	assert.Zero(t, env.countRows(t, &domain.OutboxEvent{}))
}

func TestApprovalService_Forbidden(t *testing.T) {
	env := newTestEnv(t)
	letter := env.newLetter(t, 1)

	tests := []struct {
		actor string
		stage domain.StageName
	}{
		{"staff01", domain.StageUser},
		{"satpam01", domain.StageUser},
		{"user01", domain.StageSatpam},
		{"manager01", domain.StageAsman},
		{"asman01", domain.StageManager},
	}

	for _, tt := range tests {
		t.Run(tt.actor+"_"+string(tt.stage), func(t *testing.T) {
			_, err := env.approvals.SubmitApproval(testutil.ContextWithUser(env.user(tt.actor)), letter.ID, tt.stage, decide(domain.DecisionSesuai))
			assert.ErrorIs(t, err, service.ErrForbidden)
		})
	}

	after := env.reload(t, letter.ID)
	assert.Equal(t, letter.Version, after.Version)
	assert.Empty(t, env.auditsFor(t, letter.ID))
	assert.Zero(t, env.countRows(t, &domain.Notification{}))
	assert.Zero(t, env.countRows(t, &domain.OutboxEvent{}))
}

func TestApprovalService_InvalidInput(t *testing.T) {
	env := newTestEnv(t)
	letter := env.newLetter(t, 2)
	ctx := testutil.ContextWithUser(env.user("admin"))

	tests := []struct {
		name  string
		stage domain.StageName
		req   *domain.SubmitApprovalRequest
	}{
		{"unknown stage", "security", decide(domain.DecisionSesuai)},
		{"decision outside stage set", domain.StageUser, decide(domain.DecisionApproved)},
		{"pending is not a decision", domain.StageUser, decide(domain.DecisionPending)},
		{"unknown item position", domain.StageUser, &domain.SubmitApprovalRequest{Decision: domain.DecisionSesuai, ItemDecisions: map[int]domain.Decision{7: domain.DecisionSesuai}}},
		{"invalid item tag", domain.StageUser, &domain.SubmitApprovalRequest{Decision: domain.DecisionSesuai, ItemDecisions: map[int]domain.Decision{0: domain.DecisionApproved}}},
		{"nil request", domain.StageUser, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.approvals.SubmitApproval(ctx, letter.ID, tt.stage, tt.req)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}

	after := env.reload(t, letter.ID)
	assert.Equal(t, letter.Version, after.Version)
	assert.Empty(t, env.auditsFor(t, letter.ID))
}

func TestApprovalService_ItemDecisionsOnlyAtTaggedStages(t *testing.T) {
	env := newTestEnv(t)
	letter := env.newLetter(t, 1)
	admin := testutil.ContextWithUser(env.user("admin"))

	_, err := env.approvals.SubmitApproval(admin, letter.ID, domain.StageUser, decide(domain.DecisionSesuai))
	require.NoError(t, err)
	_, err = env.approvals.SubmitApproval(admin, letter.ID, domain.StageSatpam, decide(domain.DecisionSesuai))
	require.NoError(t, err)

	_, err = env.approvals.SubmitApproval(admin, letter.ID, domain.StageAsman, &domain.SubmitApprovalRequest{
		Decision:      domain.DecisionApproved,
		ItemDecisions: map[int]domain.Decision{0: domain.DecisionSesuai},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestApprovalService_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.approvals.SubmitApproval(testutil.ContextWithUser(env.user("admin")), 4242, domain.StageUser, decide(domain.DecisionSesuai))
	assert.ErrorIs(t, err, service.ErrPermitNotFound)

	// a missing letter wins over an unknown stage
	_, err = env.approvals.SubmitApproval(testutil.ContextWithUser(env.user("staff01")), 4242, "security", decide(domain.DecisionSesuai))
	assert.ErrorIs(t, err, service.ErrPermitNotFound)
}

func TestApprovalService_RequiresUserContext(t *testing.T) {
	env := newTestEnv(t)
	letter := env.newLetter(t, 1)

	_, err := env.approvals.SubmitApproval(context.Background(), letter.ID, domain.StageUser, decide(domain.DecisionSesuai))
	assert.ErrorIs(t, err, service.ErrUserContextRequired)
}

func TestApprovalService_StageTwoNotifiesNextRoleHolders(t *testing.T) {
	env := newTestEnv(t)

	t.Run("satpam acts", func(t *testing.T) {
		letter := env.newLetter(t, 1)
		_, err := env.approvals.SubmitApproval(testutil.ContextWithUser(env.user("user01")), letter.ID, domain.StageUser, decide(domain.DecisionSesuai))
		require.NoError(t, err)
		before := notificationCounts(t, env)

		_, err = env.approvals.SubmitApproval(testutil.ContextWithUser(env.user("satpam01")), letter.ID, domain.StageSatpam, decide(domain.DecisionSesuai))
		require.NoError(t, err)
		after := notificationCounts(t, env)

		assert.Equal(t, 1, after["asman01"]-before["asman01"])
		assert.Equal(t, 1, after["asman02"]-before["asman02"])
		assert.Equal(t, 1, after["admin"]-before["admin"])
		assert.Zero(t, after["asman03"]-before["asman03"], "inactive users are skipped")
		assert.Zero(t, after["satpam01"]-before["satpam01"])
		assert.Zero(t, after["manager01"]-before["manager01"])
		assert.Zero(t, after["staff01"]-before["staff01"])

		for _, n := range env.notificationsFor(t, env.user("asman01").ID) {
			assert.Equal(t, "Surat Menunggu Persetujuan Asman", n.Title)
		}
	})

	t.Run("acting admin is excluded", func(t *testing.T) {
		letter := env.newLetter(t, 1)
		admin := testutil.ContextWithUser(env.user("admin"))
		_, err := env.approvals.SubmitApproval(admin, letter.ID, domain.StageUser, decide(domain.DecisionSesuai))
		require.NoError(t, err)
		before := notificationCounts(t, env)

		_, err = env.approvals.SubmitApproval(admin, letter.ID, domain.StageSatpam, decide(domain.DecisionTidakSesuai))
		require.NoError(t, err)
		after := notificationCounts(t, env)

		assert.Zero(t, after["admin"]-before["admin"])
		assert.Equal(t, 1, after["asman01"]-before["asman01"])
		assert.Equal(t, 1, after["asman02"]-before["asman02"])
	})
}

func TestApprovalService_ItemTagsRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	letter := env.newLetter(t, 3)
	ctx := testutil.ContextWithUser(env.user("user01"))

	_, err := env.approvals.SubmitApproval(ctx, letter.ID, domain.StageUser, &domain.SubmitApprovalRequest{
		Decision: domain.DecisionTidakSesuai,
		ItemDecisions: map[int]domain.Decision{
			0: domain.DecisionSesuai,
			1: domain.DecisionTidakSesuai,
			2: domain.DecisionSesuai,
		},
	})
	require.NoError(t, err)

	after := env.reload(t, letter.ID)
	assert.Equal(t, domain.DecisionSesuai, after.Items[0].UserTag)
	assert.Equal(t, domain.DecisionTidakSesuai, after.Items[1].UserTag)
	assert.Equal(t, domain.DecisionSesuai, after.Items[2].UserTag)
	for _, item := range after.Items {
		assert.Equal(t, domain.DecisionPending, item.SatpamTag)
	}

	// re-deciding while satpam has not acted resets unmentioned items to pending
	dto, err := env.approvals.SubmitApproval(ctx, letter.ID, domain.StageUser, &domain.SubmitApprovalRequest{
		Decision:      domain.DecisionSesuai,
		ItemDecisions: map[int]domain.Decision{1: domain.DecisionSesuai},
	})
	require.NoError(t, err)
	require.Len(t, dto.Items, 3)
	assert.Equal(t, domain.DecisionPending, dto.Items[0].UserTag)
	assert.Equal(t, domain.DecisionSesuai, dto.Items[1].UserTag)
	assert.Equal(t, domain.DecisionPending, dto.Items[2].UserTag)
	assert.Equal(t, domain.DecisionSesuai, dto.Stages[0].Decision)

	_, err = env.approvals.SubmitApproval(testutil.ContextWithUser(env.user("satpam01")), letter.ID, domain.StageSatpam, &domain.SubmitApprovalRequest{
		Decision:      domain.DecisionSesuai,
		ItemDecisions: map[int]domain.Decision{2: domain.DecisionTidakSesuai},
	})
	require.NoError(t, err)

	after = env.reload(t, letter.ID)
	assert.Equal(t, domain.DecisionSesuai, after.Items[1].UserTag, "satpam stage leaves user tags alone")
	assert.Equal(t, domain.DecisionPending, after.Items[0].SatpamTag)
	assert.Equal(t, domain.DecisionTidakSesuai, after.Items[2].SatpamTag)
}

func TestApprovalService_FrozenStages(t *testing.T) {
	env := newTestEnv(t)
	letter := env.newLetter(t, 1)
	admin := testutil.ContextWithUser(env.user("admin"))

	_, err := env.approvals.SubmitApproval(admin, letter.ID, domain.StageUser, decide(domain.DecisionSesuai))
	require.NoError(t, err)
	_, err = env.approvals.SubmitApproval(admin, letter.ID, domain.StageSatpam, decide(domain.DecisionSesuai))
	require.NoError(t, err)

	_, err = env.approvals.SubmitApproval(testutil.ContextWithUser(env.user("user01")), letter.ID, domain.StageUser, decide(domain.DecisionTidakSesuai))
	assert.ErrorIs(t, err, service.ErrStageFrozen)

	_, err = env.approvals.SubmitApproval(admin, letter.ID, domain.StageAsman, decide(domain.DecisionApproved))
	require.NoError(t, err)
	_, err = env.approvals.SubmitApproval(admin, letter.ID, domain.StageManager, decide(domain.DecisionRejected))
	require.NoError(t, err)

	_, err = env.approvals.SubmitApproval(admin, letter.ID, domain.StageManager, decide(domain.DecisionApproved))
	assert.ErrorIs(t, err, service.ErrStageFrozen)

	after := env.reload(t, letter.ID)
	assert.Equal(t, domain.PermitStatusRejected, after.Status)
	assert.Equal(t, domain.DecisionSesuai, after.StageDecision(domain.StageUser))
	assert.Len(t, env.auditsFor(t, letter.ID), 4)
}

func TestApprovalService_ConcurrentDecisionsSerialize(t *testing.T) {
	env := newTestEnv(t)
	letter := env.newLetter(t, 1)

	const workers = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.approvals.SubmitApproval(testutil.ContextWithUser(env.user("user01")), letter.ID, domain.StageUser, decide(domain.DecisionSesuai))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, service.ErrConflict)
	}

	after := env.reload(t, letter.ID)
	assert.Equal(t, int64(1+succeeded), after.Version)
	assert.Len(t, env.auditsFor(t, letter.ID), succeeded)
}

func TestApprovalService_DeliveryFailureIsRetried(t *testing.T) {
	env := newTestEnv(t)
	letter := env.newLetter(t, 1)
	require.NoError(t, env.db.Migrator().DropTable(&domain.Notification{}))

	dto, err := env.approvals.SubmitApproval(testutil.ContextWithUser(env.user("user01")), letter.ID, domain.StageUser, decide(domain.DecisionSesuai))
	require.NoError(t, err, "a failed notice does not undo the decision")
	assert.Equal(t, domain.DecisionSesuai, dto.Stages[0].Decision)
	assert.Len(t, env.auditsFor(t, letter.ID), 1)

	var pending []domain.OutboxEvent
	require.NoError(t, env.db.Where("delivered_at IS NULL").Find(&pending).Error)
	require.NotEmpty(t, pending)
	for _, e := range pending {
		assert.Equal(t, domain.OutboxKindNotification, e.Kind)
		assert.Equal(t, 1, e.Attempts)
		assert.NotEmpty(t, e.LastError)
	}

	require.NoError(t, env.db.AutoMigrate(&domain.Notification{}))
	result, err := env.outbox.DispatchPending(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, len(pending), result.Delivered)
	assert.Zero(t, result.Failed)

	// satpam01, satpam02 and admin hold the next stage's roles
	assert.Equal(t, int64(3), env.countRows(t, &domain.Notification{}))

	result, err = env.outbox.DispatchPending(context.Background(), 50)
	require.NoError(t, err)
	assert.Zero(t, result.Delivered)
}

func TestApprovalService_OverrideStatus(t *testing.T) {
	env := newTestEnv(t)
	letter := env.newLetter(t, 1)
	creator := env.user("staff01")

	t.Run("forbidden roles", func(t *testing.T) {
		for _, name := range []string{"user01", "satpam01", "asman01", "staff01"} {
			_, err := env.approvals.OverrideStatus(testutil.ContextWithUser(env.user(name)), letter.ID,
				&domain.OverrideStatusRequest{Status: domain.PermitStatusApproved})
			assert.ErrorIs(t, err, service.ErrForbidden, name)
		}
	})

	t.Run("not found before role", func(t *testing.T) {
		_, err := env.approvals.OverrideStatus(testutil.ContextWithUser(env.user("satpam01")), 9999,
			&domain.OverrideStatusRequest{Status: domain.PermitStatusApproved})
		assert.ErrorIs(t, err, service.ErrPermitNotFound)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := env.approvals.OverrideStatus(testutil.ContextWithUser(env.user("manager01")), letter.ID,
			&domain.OverrideStatusRequest{Status: "archived"})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	assert.Empty(t, env.auditsFor(t, letter.ID))

	dto, err := env.approvals.OverrideStatus(testutil.ContextWithUser(env.user("manager01")), letter.ID,
		&domain.OverrideStatusRequest{Status: domain.PermitStatusRejected, Note: "barang tidak lengkap"})
	require.NoError(t, err)
	assert.Equal(t, domain.PermitStatusRejected, dto.Status)
	assert.Equal(t, "barang tidak lengkap", dto.StatusNote)
	for _, st := range dto.Stages {
		assert.Equal(t, domain.DecisionPending, st.Decision)
	}

	audits := env.auditsFor(t, letter.ID)
	require.Len(t, audits, 1)
	assert.Equal(t, domain.AuditActionStatusOverride, audits[0].Action)

	notices := env.notificationsFor(t, creator.ID)
	require.Len(t, notices, 1)
	assert.Equal(t, "Status Surat Diperbarui", notices[0].Title)
}

func notificationCounts(t *testing.T, env *testEnv) map[string]int {
	counts := map[string]int{}
	for name, u := range env.accounts {
		counts[name] = len(env.notificationsFor(t, u.ID))
	}
	return counts
}
