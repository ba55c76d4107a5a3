package taxengine

import (
	"backend/pkg/apperr"

	"github.com/shopspring/decimal"
)

// TaxType enum constants
const (
	TaxTypePIT         = "PIT"
	TaxTypeCIT         = "CIT"
	TaxTypeCGT         = "CGT"
	TaxTypeVAT         = "VAT"
	TaxTypePresumptive = "PRESUMPTIVE"
)

// Reliefs itemizes the PIT deductions actually granted.
type Reliefs struct {
	RentRelief          decimal.Decimal `json:"rent_relief"`
	PensionContribution decimal.Decimal `json:"pension_contribution"`
	HealthInsurance     decimal.Decimal `json:"health_insurance"`
}

// Total sums every relief component.
func (r Reliefs) Total() decimal.Decimal {
	return r.RentRelief.Add(r.PensionContribution).Add(r.HealthInsurance)
}

// Breakdown carries enough detail to reproduce the liability from the
// inputs. Only the fields relevant to the computed tax type are populated.
type Breakdown struct {
	Slabs         []SlabContribution `json:"slabs,omitempty"`
	EffectiveRate decimal.Decimal    `json:"effective_rate"`
	MarginalRate  decimal.Decimal    `json:"marginal_rate"`

	IsExempt        bool   `json:"is_exempt,omitempty"`
	ExemptionReason string `json:"exemption_reason,omitempty"`

	// PIT relief components, kept in the stored breakdown so a persisted
	// return can be revalidated against its original claims.
	Reliefs *Reliefs `json:"reliefs,omitempty"`

	// CIT
	IsSmallCompany  bool             `json:"is_small_company,omitempty"`
	IsLargeCompany  bool             `json:"is_large_company,omitempty"`
	DevelopmentLevy *decimal.Decimal `json:"development_levy,omitempty"`
	TotalTaxBurden  *decimal.Decimal `json:"total_tax_burden,omitempty"`

	// CGT
	CapitalGain *decimal.Decimal `json:"capital_gain,omitempty"`
	IsCompany   bool             `json:"is_company,omitempty"`

	// Presumptive
	IsPresumptive   bool             `json:"is_presumptive,omitempty"`
	ActivityType    string           `json:"activity_type,omitempty"`
	PresumptiveRate *decimal.Decimal `json:"presumptive_rate,omitempty"`
	BelowThreshold  bool             `json:"below_threshold,omitempty"`

	// VAT
	VATRate     *decimal.Decimal `json:"vat_rate,omitempty"`
	VATAmount   *decimal.Decimal `json:"vat_amount,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
}

// Result is the outcome of one computation. Monetary totals are rounded to
// two decimal places at this boundary only.
type Result struct {
	TaxType       string             `json:"tax_type"`
	GrossIncome   decimal.Decimal    `json:"gross_income"`
	Deductions    decimal.Decimal    `json:"deductions"`
	Reliefs       Reliefs            `json:"reliefs"`
	TaxableIncome decimal.Decimal    `json:"taxable_income"`
	TaxLiability  decimal.Decimal    `json:"tax_liability"`
	NetIncome     decimal.Decimal    `json:"net_income"`
	Breakdown     Breakdown          `json:"breakdown"`
	Warnings      []apperr.FieldError `json:"warnings,omitempty"`
}

func round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

func percent(v decimal.Decimal) decimal.Decimal {
	return v.Mul(decimal.NewFromInt(100))
}

// effectiveRatePercent is tax/base as a percentage, 0 when the base is 0.
func effectiveRatePercent(tax, base decimal.Decimal) decimal.Decimal {
	if base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return round2(percent(tax.Div(base)))
}
