package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionComputeTax             = "COMPUTE_TAX"
	ActionRecordExpenditure      = "RECORD_CAPITAL_EXPENDITURE"
	ActionUpdateExpenditure      = "UPDATE_CAPITAL_EXPENDITURE"
	ActionDeleteExpenditure      = "DELETE_CAPITAL_EXPENDITURE"
	ActionAllocateCredits        = "ALLOCATE_TAX_CREDITS"
	ActionGenerateReturn         = "GENERATE_TAX_RETURN"
	ActionUpdateReturn           = "UPDATE_TAX_RETURN"
	ActionSubmitReturn           = "SUBMIT_TAX_RETURN"
	ActionDeleteReturn           = "DELETE_TAX_RETURN"
	ActionCreateTaxConfig        = "CREATE_TAX_CONFIG"
	ActionUpdateTaxConfig        = "UPDATE_TAX_CONFIG"
	ActionDeleteTaxConfig        = "DELETE_TAX_CONFIG"
	ActionSeedTaxConfig          = "SEED_TAX_CONFIG"
	ActionCreateBusiness         = "CREATE_BUSINESS"
	ActionUpdateBusiness         = "UPDATE_BUSINESS"
	ActionRecordDonation         = "RECORD_DONATION"
	ActionCreateVATRecord        = "CREATE_VAT_RECORD"
	ActionVerifyDocument         = "VERIFY_DOCUMENT"
	ActionCreateComplianceTask   = "CREATE_COMPLIANCE_TASK"
	ActionCompleteComplianceTask = "COMPLETE_COMPLIANCE_TASK"
)

// AuditLog tracks who did what and when for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nullable for automated actions
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
