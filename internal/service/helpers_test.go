package service_test

import (
	"testing"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/repository"
	"github.com/adipala-ubp/surat-izin/internal/service"
	"github.com/adipala-ubp/surat-izin/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db            *gorm.DB
	permits       *service.PermitService
	approvals     *service.ApprovalService
	notifications *service.NotificationService
	audit         *service.AuditLogService
	outbox        *service.OutboxService
	users         *service.UserService
	accounts      map[string]*domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	permitRepo := repository.NewPermitRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	outbox := service.NewOutboxService(db, outboxRepo, notificationRepo, auditRepo, 5, log)
	notifications := service.NewNotificationService(notificationRepo, userRepo, outboxRepo, log)
	audit := service.NewAuditLogService(auditRepo, outboxRepo, log)

	env := &testEnv{
		db:            db,
		permits:       service.NewPermitService(db, permitRepo, audit, outbox, log),
		approvals:     service.NewApprovalService(db, permitRepo, notifications, audit, outbox, log),
		notifications: notifications,
		audit:         audit,
		outbox:        outbox,
		users:         service.NewUserService(userRepo, log),
		accounts:      map[string]*domain.User{},
	}

	for name, role := range map[string]domain.UserRole{
		"admin":     domain.RoleAdmin,
		"user01":    domain.RoleUser,
		"staff01":   domain.RoleStaff,
		"satpam01":  domain.RoleSatpam,
		"satpam02":  domain.RoleSatpam,
		"asman01":   domain.RoleAsman,
		"asman02":   domain.RoleAsman,
		"manager01": domain.RoleManager,
	} {
		env.accounts[name] = testutil.CreateTestUser(t, db, name, role)
	}
	env.accounts["asman03"] = testutil.CreateInactiveUser(t, db, "asman03", domain.RoleAsman)

	return env
}

func (e *testEnv) user(name string) *domain.User {
	return e.accounts[name]
}

// newLetter inserts a pending letter created by staff01
func (e *testEnv) newLetter(t *testing.T, items int) *domain.PermitLetter {
	return testutil.CreateTestPermit(t, e.db, e.user("staff01").ID, items)
}

func (e *testEnv) reload(t *testing.T, id uint) *domain.PermitLetter {
	letter, err := repository.NewPermitRepository(e.db).GetByID(testutil.ContextWithUser(e.user("admin")), id)
	require.NoError(t, err)
	return letter
}

func (e *testEnv) auditsFor(t *testing.T, letterID uint) []domain.AuditLog {
	var logs []domain.AuditLog
	require.NoError(t, e.db.
		Where("entity_type = ? AND entity_id = ?", service.EntityTypePermit, letterID).
		Order("performed_at ASC").
		Find(&logs).Error)
	return logs
}

func (e *testEnv) notificationsFor(t *testing.T, userID uint) []domain.Notification {
	var list []domain.Notification
	require.NoError(t, e.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&list).Error)
	return list
}

func (e *testEnv) countRows(t *testing.T, model interface{}) int64 {
	var count int64
	require.NoError(t, e.db.Model(model).Count(&count).Error)
	return count
}

func decide(d domain.Decision) *domain.SubmitApprovalRequest {
	return &domain.SubmitApprovalRequest{Decision: d}
}

func validCreateRequest(number string) *domain.CreatePermitRequest {
	return &domain.CreatePermitRequest{
		LetterNumber:  number,
		Direction:     domain.DirectionOutbound,
		EffectiveDate: "2024-05-02",
		IssueDate:     "2024-05-01",
		Division:      "PEMELIHARAAN",
		RequesterName: "BUDI SANTOSO",
		Badge:         "EMP-12345",
		VehicleNumber: "R 1234 AB",
		Company:       "PT MITRA SEJAHTERA",
		WorkOrderRef:  "SPK/2024/05/001",
		PreparedBy:    "BUDI SANTOSO",
		CheckedBy:     "KOMANDAN REGU",
		ApprovedBy:    "MANAGER ADMINISTRASI",
		Items: []domain.CreatePermitItemRequest{
			{Name: "Kabel Listrik 4x2.5mm", Quantity: 10, Unit: "Roll", Remark: "Merah"},
			{Name: "MCB 3 Phase", Quantity: 5, Unit: "Unit", Photos: []string{"uploads/mcb.jpg"}},
		},
	}
}
