package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CorporateDonation is a deductible donation to a verified recipient.
// Immutable once any deduction has been claimed against it.
type CorporateDonation struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	Business          *Business       `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	RecipientName     string          `gorm:"type:varchar(255);not null" json:"recipient_name"`
	RecipientTIN      string          `gorm:"type:varchar(50)" json:"recipient_tin"`
	RecipientVerified bool            `gorm:"default:false" json:"recipient_verified"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	DeductionClaimed  decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"deduction_claimed"`
	DonationDate      time.Time       `gorm:"type:date;not null" json:"donation_date"`
	TaxYear           int             `gorm:"not null;index" json:"tax_year"`
	ReceiptURL        string          `gorm:"type:text" json:"receipt_url"`
	Purpose           string          `gorm:"type:text" json:"purpose"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
