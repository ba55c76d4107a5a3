package model

import (
	"time"

	"github.com/google/uuid"
)

// ConfigValueType enum constants
const (
	ConfigNumber  = "number"
	ConfigString  = "string"
	ConfigBoolean = "boolean"
	ConfigJSON    = "json"
)

// TaxConfiguration is one versioned law parameter, keyed by tax year and
// config key. Changing a year's parameters means new rows, not code changes.
type TaxConfiguration struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaxYear     int       `gorm:"not null;uniqueIndex:ux_tax_config_year_key" json:"tax_year"`
	ConfigKey   string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_tax_config_year_key" json:"config_key"`
	ConfigValue string    `gorm:"type:text;not null" json:"config_value"`
	ValueType   string    `gorm:"type:varchar(20);not null;default:'string'" json:"value_type"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
