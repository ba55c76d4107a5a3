package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxReturnStatus enum constants. draft, pending_review and ready_to_file
// are mutable; filed is terminal for update/delete; accepted/rejected are
// regulator outcomes recorded after filing.
const (
	ReturnStatusDraft         = "draft"
	ReturnStatusPendingReview = "pending_review"
	ReturnStatusReadyToFile   = "ready_to_file"
	ReturnStatusFiled         = "filed"
	ReturnStatusAccepted      = "accepted"
	ReturnStatusRejected      = "rejected"
)

// TaxReturn aggregates a tax year's income, deductions and documentation
// into a filing. One draft exists per (user, business, tax year, tax type)
// until filed; a filed return is immutable.
type TaxReturn struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BusinessID *uuid.UUID `gorm:"type:uuid;index" json:"business_id"`
	Business   *Business  `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	TaxYear    int        `gorm:"not null;index" json:"tax_year"`
	TaxType    string     `gorm:"type:varchar(20);not null;index" json:"tax_type"`

	TotalIncome     decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"total_income"`
	TotalDeductions decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"total_deductions"`
	TotalReliefs    decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"total_reliefs"`
	TaxableIncome   decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"taxable_income"`
	TaxLiability    decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"tax_liability"`
	TaxPaid         decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"tax_paid"`
	TaxDue          decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"tax_due"`

	Status               string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	SupportingDocuments  string     `gorm:"type:jsonb" json:"supporting_documents"`  // categorized file URLs
	CalculationBreakdown string     `gorm:"type:jsonb" json:"calculation_breakdown"` // serialized engine breakdown
	DocumentationComplete bool      `gorm:"default:false" json:"documentation_complete"`
	MissingDocuments     string     `gorm:"type:jsonb" json:"missing_documents"` // serialized []string
	ValidationErrors     string     `gorm:"type:jsonb" json:"validation_errors"` // serialized []string
	Submitted            bool       `gorm:"default:false" json:"submitted"`
	SubmissionDate       *time.Time `json:"submission_date"`
	FIRSReferenceNumber  string     `gorm:"type:varchar(50)" json:"firs_reference_number"`
	Notes                string     `gorm:"type:text" json:"notes"`
	RejectionReason      string     `gorm:"type:text" json:"rejection_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
