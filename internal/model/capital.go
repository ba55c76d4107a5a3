package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CapitalExpenditure is a qualifying capital investment that earned a tax
// credit. Amount edits and deletion are allowed only while no credit has
// been claimed against it.
type CapitalExpenditure struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	Business        *Business       `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	ExpenditureDate time.Time       `gorm:"type:date;not null" json:"expenditure_date"`
	Description     string          `gorm:"type:text" json:"description"`
	InvoiceURL      string          `gorm:"type:text" json:"invoice_url"`
	SupplierName    string          `gorm:"type:varchar(255)" json:"supplier_name"`
	SupplierTIN     string          `gorm:"type:varchar(50)" json:"supplier_tin"`
	TaxYear         int             `gorm:"not null;index" json:"tax_year"`
	CreditClaimed   decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"credit_claimed"`
	CreditRemaining decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"credit_remaining"`
	FullyUtilized   bool            `gorm:"default:false" json:"fully_utilized"`
	ExpiryYear      int             `gorm:"not null" json:"expiry_year"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TaxCreditCarryForward is one ledger entry in the multi-year credit
// carryforward. RemainingAmount only ever decreases; expiry is enforced at
// query time against the allocation year, never by a background sweep.
type TaxCreditCarryForward struct {
	ID                   uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"business_id"`
	CapitalExpenditureID *uuid.UUID          `gorm:"type:uuid;index" json:"capital_expenditure_id"`
	CapitalExpenditure   *CapitalExpenditure `gorm:"foreignKey:CapitalExpenditureID" json:"capital_expenditure,omitempty"`
	OriginYear           int                 `gorm:"not null;index" json:"origin_year"`
	OriginalAmount       decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"original_amount"`
	RemainingAmount      decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"remaining_amount"`
	ExpiryYear           int                 `gorm:"not null" json:"expiry_year"`
	FullyUtilized        bool                `gorm:"default:false;index" json:"fully_utilized"`
	LastAppliedYear      *int                `json:"last_applied_year"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}
