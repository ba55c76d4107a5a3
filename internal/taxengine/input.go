package taxengine

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PITInput holds the raw figures for a personal income tax computation.
// Inputs are treated as immutable once handed to the engine.
type PITInput struct {
	GrossIncome         decimal.Decimal `json:"gross_income"`
	RentPaid            decimal.Decimal `json:"rent_paid"`
	PensionContribution decimal.Decimal `json:"pension_contribution"`
	HealthInsurance     decimal.Decimal `json:"health_insurance"`

	// Supporting evidence for relief claims
	LandlordName        string `json:"landlord_name"`
	LandlordTIN         string `json:"landlord_tin"`
	LandlordAddress     string `json:"landlord_address"`
	PensionProviderName string `json:"pension_provider_name"`
	PensionPolicyNumber string `json:"pension_policy_number"`
	HealthProviderName  string `json:"health_provider_name"`
	HealthPolicyNumber  string `json:"health_policy_number"`
}

// CITInput holds the raw figures for a company income tax computation.
type CITInput struct {
	BusinessName      string          `json:"business_name"`
	AnnualTurnover    decimal.Decimal `json:"annual_turnover"`
	AssetValue        decimal.Decimal `json:"asset_value"`
	AssessableProfits decimal.Decimal `json:"assessable_profits"` // zero = derive from turnover
	BusinessType      string          `json:"business_type"`
	TaxExemptStatus   bool            `json:"tax_exempt_status"`
	IsAgricultural    bool            `json:"is_agricultural"`
	AgriStartDate     *time.Time      `json:"agricultural_start_date"`
}

// CGTInput holds the raw figures for a capital gains tax computation.
type CGTInput struct {
	Proceeds  decimal.Decimal `json:"proceeds"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	IsCompany bool            `json:"is_company"`

	IsPrivateResidence bool `json:"is_private_residence"`
	IsPersonalVehicle  bool `json:"is_personal_vehicle"`
	VehicleCount       int  `json:"vehicle_count"`

	IsLossOfOffice    bool            `json:"is_loss_of_office"`
	SeveranceAmount   decimal.Decimal `json:"severance_amount"`
	TerminationDate   *time.Time      `json:"termination_date"`
	EmployerName      string          `json:"employer_name"`
	TerminationReason string          `json:"termination_reason"`
	YearsOfService    int             `json:"years_of_service"`
}

// PresumptiveInput holds the raw figures for a presumptive tax assessment.
type PresumptiveInput struct {
	ActivityType      string          `json:"activity_type"`
	EstimatedTurnover decimal.Decimal `json:"estimated_turnover"`
	EmployeeCount     int             `json:"employee_count"`
	Location          string          `json:"location"`
}

// VATInput holds the raw figures for a VAT computation.
type VATInput struct {
	BaseAmount  decimal.Decimal `json:"base_amount"`
	IsZeroRated bool            `json:"is_zero_rated"`
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
