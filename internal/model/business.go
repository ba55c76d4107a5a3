package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BusinessSector enum constants
const (
	SectorAgriculture   = "agriculture"
	SectorManufacturing = "manufacturing"
	SectorRetail        = "retail"
	SectorServices      = "services"
	SectorTechnology    = "technology"
	SectorHealthcare    = "healthcare"
	SectorEducation     = "education"
	SectorConstruction  = "construction"
	SectorHospitality   = "hospitality"
	SectorTransport     = "transport"
	SectorFinance       = "finance"
	SectorOther         = "other"
)

// BusinessSize enum constants (classified from turnover)
const (
	SizeMicro  = "micro"
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// Business represents a registered company or enterprise owned by a user
type Business struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner              *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name               string          `gorm:"type:varchar(255);not null" json:"name"`
	RegistrationNumber string          `gorm:"type:varchar(50)" json:"registration_number"`
	TIN                string          `gorm:"type:varchar(50);index" json:"tin"`
	TINVerified        bool            `gorm:"default:false" json:"tin_verified"`
	Sector             string          `gorm:"type:varchar(30);not null" json:"sector"`
	Size               string          `gorm:"type:varchar(20);not null;default:'micro'" json:"size"`
	BusinessType       string          `gorm:"type:varchar(30)" json:"business_type"` // ngo, charity, religious, educational, company
	AnnualTurnover     decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"annual_turnover"`
	AssetValue         decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"asset_value"`
	VATRegistered      bool            `gorm:"default:false" json:"vat_registered"`
	TaxExemptStatus    bool            `gorm:"default:false" json:"tax_exempt_status"`
	IsAgricultural     bool            `gorm:"default:false" json:"is_agricultural"`
	AgriStartDate      *time.Time      `gorm:"type:date" json:"agricultural_start_date"`
	Address            string          `gorm:"type:text" json:"address"`
	State              string          `gorm:"type:varchar(50)" json:"state"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
