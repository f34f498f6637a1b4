package database

import (
	"fmt"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/mapper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	username string
	password string
	name     string
	role     domain.UserRole
	division string
}

var defaultUsers = []seedUser{
	{"admin", "admin123", "Administrator", domain.RoleAdmin, "IT"},
	{"staff01", "staff123", "Budi Santoso", domain.RoleStaff, "PEMELIHARAAN"},
	{"manager01", "manager123", "Manager Administrasi", domain.RoleManager, "ADMINISTRASI"},
	{"user01", "user123", "Sari Dewi", domain.RoleUser, "OPERASI"},
	{"satpam01", "satpam123", "Komandan Regu", domain.RoleSatpam, "KEAMANAN"},
	{"asman01", "asman123", "Asisten Manager", domain.RoleAsman, "ADMINISTRASI"},
}

// Seed inserts the default accounts and sample letters into empty tables
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&domain.User{}).Count(&users).Error; err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if users == 0 {
			for _, u := range defaultUsers {
				hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
				if err != nil {
					return fmt.Errorf("failed to hash password for %s: %w", u.username, err)
				}
				user := &domain.User{
					Username:     u.username,
					PasswordHash: string(hash),
					DisplayName:  u.name,
					Role:         u.role,
					Division:     u.division,
					Active:       true,
				}
				if err := tx.Create(user).Error; err != nil {
					return fmt.Errorf("failed to seed user %s: %w", u.username, err)
				}
			}
		}

		var letters int64
		if err := tx.Model(&domain.PermitLetter{}).Count(&letters).Error; err != nil {
			return fmt.Errorf("failed to count permit letters: %w", err)
		}
		if letters > 0 {
			return nil
		}

		var creator domain.User
		if err := tx.Where("username = ?", "admin").First(&creator).Error; err != nil {
			return fmt.Errorf("failed to find seed creator: %w", err)
		}
		for _, letter := range sampleLetters(creator.ID) {
			if err := tx.Create(letter).Error; err != nil {
				return fmt.Errorf("failed to seed letter %s: %w", letter.LetterNumber, err)
			}
		}
		return nil
	})
}

// VerifyPassword compares a plaintext password with a stored bcrypt hash
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func sampleLetters(createdBy uint) []*domain.PermitLetter {
	date := func(s string) time.Time {
		t, _ := time.Parse(domain.DateLayout, s)
		return t
	}
	item := func(pos int, name string, qty int, unit, remark string) domain.PermitLineItem {
		return domain.PermitLineItem{
			Position:  pos,
			Name:      name,
			Quantity:  qty,
			Unit:      unit,
			Remark:    remark,
			Photos:    mapper.EncodePhotos(nil),
			UserTag:   domain.DecisionPending,
			SatpamTag: domain.DecisionPending,
		}
	}

	return []*domain.PermitLetter{
		{
			Version: 1, LetterNumber: "3783.SJ/07/ADPPGU/2023", Direction: domain.DirectionOutbound,
			EffectiveDate: date("2023-07-15"), IssueDate: date("2023-07-01"),
			Division: "PEMELIHARAAN", RequesterName: "BUDI SANTOSO", Badge: "EMP-12345",
			VehicleNumber: "B 1234 XYZ", Company: "PT MITRA SEJAHTERA", WorkOrderRef: "SPK/2023/07/001",
			PreparedBy: "BUDI SANTOSO", CheckedBy: "KOMANDAN REGU", ApprovedBy: "MANAGER ADMINISTRASI",
			Status: domain.PermitStatusPending, CreatedBy: createdBy,
			Items: []domain.PermitLineItem{
				item(0, "Kabel Listrik 4x2.5mm", 10, "Roll", "Merah, panjang 100m"),
				item(1, "MCB 3 Phase", 5, "Unit", "32A Schneider"),
			},
			Stages: domain.NewStageRecords(),
		},
		{
			Version: 1, LetterNumber: "3784.SM/07/ADPPGU/2023", Direction: domain.DirectionInbound,
			EffectiveDate: date("2023-07-16"), IssueDate: date("2023-07-01"),
			Division: "OPERASI", RequesterName: "SARI DEWI", Badge: "EMP-67890",
			VehicleNumber: "B 5678 ABC", Company: "PT JAYA ABADI", WorkOrderRef: "SPK/2023/07/002",
			PreparedBy: "SARI DEWI", CheckedBy: "SUPERVISOR OPERASI", ApprovedBy: "MANAGER ADMINISTRASI",
			Status: domain.PermitStatusPending, CreatedBy: createdBy,
			Items: []domain.PermitLineItem{
				item(0, "Transformator 500 kVA", 1, "Unit", "Baru"),
			},
			Stages: domain.NewStageRecords(),
		},
		{
			Version: 1, LetterNumber: "3785.SJ/08/ADPPGU/2023", Direction: domain.DirectionOutbound,
			EffectiveDate: date("2023-08-10"), IssueDate: date("2023-08-01"),
			Division: "TEKNIK", RequesterName: "AGUS PRASETYA", Badge: "EMP-24680",
			VehicleNumber: "B 9012 DEF", Company: "CV TEKNIK MANDIRI", WorkOrderRef: "MEMO/TEK/08/2023",
			PreparedBy: "AGUS PRASETYA", CheckedBy: "KEPALA TEKNIK", ApprovedBy: "MANAGER ADMINISTRASI",
			Status: domain.PermitStatusPending, CreatedBy: createdBy,
			Items: []domain.PermitLineItem{
				item(0, "Multimeter Digital", 3, "Unit", "Fluke 87V"),
			},
			Stages: domain.NewStageRecords(),
		},
	}
}
