package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/repository"
	"github.com/adipala-ubp/surat-izin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPermitRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPermitRepository(db)
	creator := testutil.CreateTestUser(t, db, "staff01", domain.RoleStaff)
	created := testutil.CreateTestPermit(t, db, creator.ID, 3)

	t.Run("by id", func(t *testing.T) {
		found, err := repo.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.LetterNumber, found.LetterNumber)
		assert.Equal(t, int64(1), found.Version)
		require.Len(t, found.Items, 3)
		for i, item := range found.Items {
			assert.Equal(t, i, item.Position)
		}
		assert.Len(t, found.Stages, len(domain.ApprovalChain))
	})

	t.Run("by letter number", func(t *testing.T) {
		found, err := repo.GetByLetterNumber(context.Background(), created.LetterNumber)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)

		exists, err := repo.ExistsByLetterNumber(context.Background(), created.LetterNumber)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByLetterNumber(context.Background(), "nope")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.GetByID(context.Background(), created.ID+1000)
		assert.True(t, repository.IsNotFound(err))
	})
}

func TestPermitRepository_UpdateWithVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPermitRepository(db)
	creator := testutil.CreateTestUser(t, db, "staff01", domain.RoleStaff)
	letter := testutil.CreateTestPermit(t, db, creator.ID, 1)
	ctx := context.Background()

	ok, err := repo.UpdateWithVersion(ctx, letter.ID, 1, map[string]interface{}{"status": domain.PermitStatusReview})
	require.NoError(t, err)
	assert.True(t, ok)

	// the stale version loses
	ok, err = repo.UpdateWithVersion(ctx, letter.ID, 1, map[string]interface{}{"status": domain.PermitStatusRejected})
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.GetByID(ctx, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PermitStatusReview, found.Status)
	assert.Equal(t, int64(2), found.Version)
}

func TestPermitRepository_UpdateStageAndItemTag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPermitRepository(db)
	creator := testutil.CreateTestUser(t, db, "staff01", domain.RoleStaff)
	letter := testutil.CreateTestPermit(t, db, creator.ID, 2)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.UpdateStage(ctx, letter.ID, domain.StageUser, domain.DecisionSesuai, creator.ID, now, "cek"))
	require.NoError(t, repo.UpdateItemTag(ctx, letter.Items[1].ID, domain.ItemTagUser, domain.DecisionTidakSesuai))

	err := repo.UpdateStage(ctx, letter.ID+99, domain.StageUser, domain.DecisionSesuai, creator.ID, now, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Error(t, repo.UpdateItemTag(ctx, letter.Items[0].ID, domain.ItemTagNone, domain.DecisionSesuai))

	found, err := repo.GetByID(ctx, letter.ID)
	require.NoError(t, err)
	stage := found.Stage(domain.StageUser)
	require.NotNil(t, stage)
	assert.Equal(t, domain.DecisionSesuai, stage.Decision)
	require.NotNil(t, stage.ActorID)
	assert.Equal(t, creator.ID, *stage.ActorID)
	assert.NotNil(t, stage.DecidedAt)
	assert.Equal(t, "cek", stage.Note)

	assert.Equal(t, domain.DecisionPending, found.Items[0].UserTag)
	assert.Equal(t, domain.DecisionTidakSesuai, found.Items[1].UserTag)
	assert.Equal(t, domain.DecisionPending, found.Items[1].SatpamTag)
}

func TestPermitRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPermitRepository(db)
	creator := testutil.CreateTestUser(t, db, "staff01", domain.RoleStaff)
	ctx := context.Background()

	first := testutil.CreateTestPermit(t, db, creator.ID, 1)
	second := testutil.CreateTestPermit(t, db, creator.ID, 1)
	require.NoError(t, db.Model(second).Updates(map[string]interface{}{
		"direction": domain.DirectionInbound,
		"company":   "CV Jaya Abadi",
		"status":    domain.PermitStatusReview,
	}).Error)

	letters, total, err := repo.List(ctx, 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, letters, 2)

	inbound := domain.DirectionInbound
	letters, total, err = repo.List(ctx, 1, 10, &repository.PermitFilters{Direction: &inbound})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, second.ID, letters[0].ID)

	letters, _, err = repo.List(ctx, 1, 10, &repository.PermitFilters{Search: "jaya"})
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, second.ID, letters[0].ID)

	pending := domain.PermitStatusPending
	letters, _, err = repo.List(ctx, 1, 10, &repository.PermitFilters{Status: &pending})
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, first.ID, letters[0].ID)

	letters, total, err = repo.List(ctx, 2, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, letters, 1)
}

func TestPermitRepository_ListSort(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPermitRepository(db)
	creator := testutil.CreateTestUser(t, db, "staff01", domain.RoleStaff)
	ctx := context.Background()

	first := testutil.CreateTestPermit(t, db, creator.ID, 1)
	second := testutil.CreateTestPermit(t, db, creator.ID, 1)
	require.NoError(t, db.Model(second).Update("issue_date", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)).Error)

	letters, _, err := repo.List(ctx, 1, 10, &repository.PermitFilters{
		Sort: repository.SortConfig{Field: "issueDate", Order: repository.SortOrderAsc},
	})
	require.NoError(t, err)
	require.Len(t, letters, 2)
	assert.Equal(t, second.ID, letters[0].ID)

	letters, _, err = repo.List(ctx, 1, 10, &repository.PermitFilters{
		Sort: repository.SortConfig{Field: "issueDate", Order: repository.SortOrderDesc},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, letters[0].ID)
}

func TestBuildOrderClause(t *testing.T) {
	fields := map[string]string{"issueDate": "issue_date"}

	assert.Equal(t, "issue_date ASC", repository.BuildOrderClause(repository.SortConfig{Field: "issueDate", Order: repository.SortOrderAsc}, fields, "created_at"))
	assert.Equal(t, "created_at DESC", repository.BuildOrderClause(repository.SortConfig{Field: "id; DROP TABLE users"}, fields, "created_at"))
	assert.Equal(t, repository.SortOrderAsc, repository.ParseSortOrder("ASC"))
	assert.Equal(t, repository.SortOrderDesc, repository.ParseSortOrder("sideways"))
}

func TestPermitRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPermitRepository(db)
	creator := testutil.CreateTestUser(t, db, "staff01", domain.RoleStaff)
	letter := testutil.CreateTestPermit(t, db, creator.ID, 2)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).Delete(ctx, letter.ID)
	})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, letter.ID)
	assert.True(t, repository.IsNotFound(err))

	var items, stages int64
	db.Model(&domain.PermitLineItem{}).Where("permit_id = ?", letter.ID).Count(&items)
	db.Model(&domain.PermitStage{}).Where("permit_id = ?", letter.ID).Count(&stages)
	assert.Zero(t, items)
	assert.Zero(t, stages)

	assert.True(t, repository.IsNotFound(repo.Delete(ctx, letter.ID)))
}

func TestUserRepository_ListActiveByRoles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	asman := testutil.CreateTestUser(t, db, "asman01", domain.RoleAsman)
	admin := testutil.CreateTestUser(t, db, "admin", domain.RoleAdmin)
	testutil.CreateInactiveUser(t, db, "asman02", domain.RoleAsman)
	testutil.CreateTestUser(t, db, "satpam01", domain.RoleSatpam)

	users, err := repo.ListActiveByRoles(ctx, []domain.UserRole{domain.RoleAsman, domain.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, asman.ID, users[0].ID)
	assert.Equal(t, admin.ID, users[1].ID)

	users, err = repo.ListActiveByRoles(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)

	found, err := repo.GetByUsername(ctx, "satpam01")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSatpam, found.Role)

	all, err := repo.List(ctx, nil, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	role := domain.RoleAsman
	active, err := repo.List(ctx, &role, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
