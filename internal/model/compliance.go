package model

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceType enum constants for the kinds of regulatory obligation a
// task tracks.
const (
	ComplianceTaxFiling      = "tax_filing"
	ComplianceVATReturn      = "vat_return"
	ComplianceAnnualReturn   = "annual_return"
	ComplianceAudit          = "audit"
	ComplianceLicenseRenewal = "license_renewal"
	ComplianceRegistration   = "registration"
	ComplianceOther          = "other"
)

// ComplianceStatus enum constants. A task past its due date that is not
// completed becomes overdue automatically when listed.
const (
	ComplianceStatusPending    = "pending"
	ComplianceStatusInProgress = "in_progress"
	ComplianceStatusCompleted  = "completed"
	ComplianceStatusOverdue    = "overdue"
)

// ComplianceTask is a dated regulatory obligation a taxpayer tracks toward
// completion, optionally tied to one of their businesses.
type ComplianceTask struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BusinessID    *uuid.UUID `gorm:"type:uuid;index" json:"business_id"`
	Business      *Business  `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Type          string     `gorm:"type:varchar(30);not null" json:"type"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	DueDate       time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CompletedDate *time.Time `gorm:"type:date" json:"completed_date"`
	Notes         string     `gorm:"type:text" json:"notes"`
	DocumentURL   string     `gorm:"type:text" json:"document_url"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
