package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxType enum constants (mirrors internal/taxengine)
const (
	TaxTypePIT         = "PIT"
	TaxTypeCIT         = "CIT"
	TaxTypeCGT         = "CGT"
	TaxTypeVAT         = "VAT"
	TaxTypePresumptive = "PRESUMPTIVE"
)

// TaxCalculation is a persisted engine result, kept so past assessments can
// be audited against the inputs and configuration that produced them.
type TaxCalculation struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          *uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	BusinessID      *uuid.UUID      `gorm:"type:uuid;index" json:"business_id"`
	TaxType         string          `gorm:"type:varchar(20);not null;index" json:"tax_type"`
	TaxYear         int             `gorm:"not null;index" json:"tax_year"`
	GrossIncome     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"gross_income"`
	Deductions      decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"deductions"`
	RentRelief      decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"rent_relief"`
	PensionRelief   decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"pension_relief"`
	HealthRelief    decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"health_relief"`
	TaxableIncome   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"taxable_income"`
	TaxLiability    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"tax_liability"`
	Breakdown       string          `gorm:"type:jsonb" json:"breakdown"` // serialized engine breakdown
	CalculationDate time.Time       `gorm:"index" json:"calculation_date"`
	CreatedAt       time.Time       `json:"created_at"`
}
