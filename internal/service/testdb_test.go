package service

import (
	"fmt"
	"testing"

	"backend/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database carrying the full schema.
// Each call gets its own named memory file so parallel tests never share
// state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Business{},
		&model.IncomeRecord{},
		&model.Document{},
		&model.TaxCalculation{},
		&model.CapitalExpenditure{},
		&model.TaxCreditCarryForward{},
		&model.TaxReturn{},
		&model.TaxConfiguration{},
		&model.VATRecord{},
		&model.CorporateDonation{},
		&model.ComplianceTask{},
		&model.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) model.User {
	t.Helper()
	u := model.User{
		FullName: "Ngozi Adeyemi",
		Email:    uuid.NewString() + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func seedBusiness(t *testing.T, db *gorm.DB, ownerID uuid.UUID) model.Business {
	t.Helper()
	b := model.Business{
		OwnerID:      ownerID,
		Name:         "Okafor Mills Ltd",
		Sector:       model.SectorManufacturing,
		Size:         model.SizeSmall,
		BusinessType: "company",
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("failed to seed business: %v", err)
	}
	return b
}
