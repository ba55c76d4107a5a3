package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VATType enum constants
const (
	VATInput  = "INPUT"  // VAT paid on purchases
	VATOutput = "OUTPUT" // VAT collected on sales
)

// VATRecord is a single VAT-bearing transaction for a registered business
type VATRecord struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	Business        *Business       `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Type            string          `gorm:"type:varchar(10);not null;index" json:"type"`
	BaseAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"base_amount"`
	VATRate         decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"vat_rate"`
	VATAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"vat_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	IsZeroRated     bool            `gorm:"default:false" json:"is_zero_rated"`
	TransactionDate time.Time       `gorm:"type:date;not null;index" json:"transaction_date"`
	Description     string          `gorm:"type:text" json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
