package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
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
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
