package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType enum constants
const (
	DocRentReceipt          = "rent_receipt"
	DocLeaseAgreement       = "lease_agreement"
	DocPensionCertificate   = "pension_certificate"
	DocHealthPolicy         = "health_insurance_policy"
	DocCapexInvoice         = "capital_expenditure_invoice"
	DocDonationReceipt      = "donation_receipt"
	DocSeveranceAgreement   = "severance_agreement"
	DocTerminationLetter    = "termination_letter"
	DocNGOExemptionCert     = "ngo_exemption_certificate"
	DocCACRegistration      = "cac_registration"
	DocBankStatement        = "bank_statement"
	DocIncomeStatement      = "income_statement"
	DocPayslip              = "payslip"
	DocTaxClearanceCert     = "tax_clearance_certificate"
	DocAgriculturalRegistry = "agricultural_registration"
	DocOther                = "other"
)

// DocumentStatus enum constants
const (
	DocStatusPending  = "pending"
	DocStatusVerified = "verified"
	DocStatusRejected = "rejected"
)

// Document is uploaded evidence metadata; the file itself lives in external
// storage and is referenced by URL only.
type Document struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	BusinessID   *uuid.UUID `gorm:"type:uuid;index" json:"business_id"`
	DocumentType string     `gorm:"type:varchar(40);not null;index" json:"document_type"`
	FileName     string     `gorm:"type:varchar(255);not null" json:"file_name"`
	FileURL      string     `gorm:"type:text;not null" json:"file_url"`
	TaxYear      int        `gorm:"not null;index" json:"tax_year"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Description  string     `gorm:"type:text" json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
