package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeSource enum constants
const (
	IncomeSalary       = "salary"
	IncomeFreelance    = "freelance"
	IncomeBusiness     = "business"
	IncomeInvestment   = "investment"
	IncomeRental       = "rental"
	IncomePension      = "pension"
	IncomePrize        = "prize"
	IncomeGrant        = "grant"
	IncomeDigitalAsset = "digital_asset"
	IncomeOther        = "other"
)

// IncomeRecord is a single income entry feeding the tax return aggregation
type IncomeRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	BusinessID  *uuid.UUID      `gorm:"type:uuid;index" json:"business_id"`
	Source      string          `gorm:"type:varchar(30);not null" json:"source"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	TaxYear     int             `gorm:"not null;index" json:"tax_year"`
	IncomeDate  time.Time       `gorm:"type:date;not null" json:"income_date"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
