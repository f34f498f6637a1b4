package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/adipala-ubp/surat-izin/internal/database"
	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/mapper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateTestUser inserts an active user with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, username string, role domain.UserRole) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		PasswordHash: "x",
		DisplayName:  strings.ToUpper(username),
		Role:         role,
		Division:     "TEST",
		Active:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateInactiveUser inserts a user whose account is disabled
func CreateInactiveUser(t *testing.T, db *gorm.DB, username string, role domain.UserRole) *domain.User {
	t.Helper()
	user := CreateTestUser(t, db, username, role)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	user.Active = false
	return user
}

// CreateTestPermit inserts a pending letter with the given number of line items
func CreateTestPermit(t *testing.T, db *gorm.DB, createdBy uint, items int) *domain.PermitLetter {
	t.Helper()
	n := dbCounter.Add(1)
	letter := &domain.PermitLetter{
		Version:       1,
		LetterNumber:  fmt.Sprintf("%d.SJ/TEST/%d", n, time.Now().UnixNano()),
		Direction:     domain.DirectionOutbound,
		EffectiveDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		IssueDate:     time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		Division:      "PEMELIHARAAN",
		RequesterName: "BUDI SANTOSO",
		Badge:         "EMP-1",
		VehicleNumber: "R 1234 AB",
		Company:       "PT MITRA",
		WorkOrderRef:  "SPK/1",
		PreparedBy:    "BUDI",
		CheckedBy:     "KOMANDAN",
		ApprovedBy:    "MANAGER",
		Status:        domain.PermitStatusPending,
		CreatedBy:     createdBy,
		Stages:        domain.NewStageRecords(),
	}
	for i := 0; i < items; i++ {
		letter.Items = append(letter.Items, domain.PermitLineItem{
			Position:  i,
			Name:      fmt.Sprintf("Barang %d", i+1),
			Quantity:  i + 1,
			Unit:      "Unit",
			Photos:    mapper.EncodePhotos(nil),
			UserTag:   domain.DecisionPending,
			SatpamTag: domain.DecisionPending,
		})
	}
	require.NoError(t, db.Create(letter).Error)
	return letter
}

// ContextWithUser returns a context carrying user as the authenticated principal
func ContextWithUser(user *domain.User) context.Context {
	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	})
	return auth.WithOrigin(ctx, auth.Origin{IPAddress: "127.0.0.1", UserAgent: "go-test", RequestID: "test-request"})
}
