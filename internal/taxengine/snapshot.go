package taxengine

import "github.com/shopspring/decimal"

// Snapshot is the full set of law parameters for one tax year. It is built
// once (from tax_configurations rows or from DefaultSnapshot) and passed
// explicitly into every computation, so recomputing an older year never
// depends on hidden shared state.
type Snapshot struct {
	TaxYear int

	// PIT
	PITBrackets      []Bracket
	TaxFreeThreshold decimal.Decimal // income at or below this needs no income statements
	RentReliefCap    decimal.Decimal
	RentReliefRate   decimal.Decimal

	// CIT
	SMETurnoverThreshold    decimal.Decimal
	SMEAssetThreshold       decimal.Decimal
	LargeCompanyThreshold   decimal.Decimal
	CITStandardRate         decimal.Decimal
	DevelopmentLevyRate     decimal.Decimal
	MinimumEffectiveTaxRate decimal.Decimal
	AssessableProfitRatio   decimal.Decimal // fallback when assessable profits are not reported
	AgriHolidayYears        int
	AgriMaxLookbackYears    int

	// CGT
	CGTProceedsExemptionCap decimal.Decimal
	CGTGainExemptionCap     decimal.Decimal
	CGTCompanyRate          decimal.Decimal
	SeveranceExemptionCap   decimal.Decimal

	// VAT
	VATStandardRate decimal.Decimal

	// Presumptive tax
	PresumptiveRates       map[string]decimal.Decimal
	PresumptiveDefaultRate decimal.Decimal
	PresumptiveMinTurnover decimal.Decimal
	PresumptiveCITCeiling  decimal.Decimal

	// Capital investment credits
	CapitalCreditRate decimal.Decimal
	CarryforwardYears int

	// Donations
	DonationDeductionRate decimal.Decimal

	// Validation warning thresholds
	PensionWarningRatio decimal.Decimal
}

// DefaultSnapshot returns the statutory 2026-reform parameters. Values for a
// given year in the tax_configurations table override these per key.
func DefaultSnapshot(taxYear int) Snapshot {
	return Snapshot{
		TaxYear: taxYear,
		PITBrackets: []Bracket{
			{Lower: d(0), Upper: dp(800_000), Rate: rate("0")},
			{Lower: d(800_000), Upper: dp(3_000_000), Rate: rate("0.15")},
			{Lower: d(3_000_000), Upper: dp(12_000_000), Rate: rate("0.18")},
			{Lower: d(12_000_000), Upper: dp(25_000_000), Rate: rate("0.21")},
			{Lower: d(25_000_000), Upper: dp(50_000_000), Rate: rate("0.23")},
			{Lower: d(50_000_000), Upper: nil, Rate: rate("0.25")},
		},
		TaxFreeThreshold: d(800_000),
		RentReliefCap:    d(500_000),
		RentReliefRate:   rate("0.20"),

		SMETurnoverThreshold:    d(100_000_000),
		SMEAssetThreshold:       d(250_000_000),
		LargeCompanyThreshold:   d(20_000_000_000),
		CITStandardRate:         rate("0.30"),
		DevelopmentLevyRate:     rate("0.04"),
		MinimumEffectiveTaxRate: rate("0.15"),
		AssessableProfitRatio:   rate("0.10"),
		AgriHolidayYears:        5,
		AgriMaxLookbackYears:    50,

		CGTProceedsExemptionCap: d(150_000_000),
		CGTGainExemptionCap:     d(10_000_000),
		CGTCompanyRate:          rate("0.30"),
		SeveranceExemptionCap:   d(50_000_000),

		VATStandardRate: rate("0.075"),

		PresumptiveRates: map[string]decimal.Decimal{
			"street_vendor": rate("0.01"),
			"food_vendor":   rate("0.01"),
			"artisan":       rate("0.015"),
			"mechanic":      rate("0.015"),
			"tailor":        rate("0.015"),
			"hairdresser":   rate("0.015"),
			"taxi_driver":   rate("0.015"),
			"small_trader":  rate("0.02"),
			"other":         rate("0.02"),
		},
		PresumptiveDefaultRate: rate("0.02"),
		PresumptiveMinTurnover: d(800_000),
		PresumptiveCITCeiling:  d(100_000_000),

		CapitalCreditRate: rate("0.05"),
		CarryforwardYears: 5,

		DonationDeductionRate: rate("0.10"),

		PensionWarningRatio: rate("0.20"),
	}
}

func d(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func dp(n int64) *decimal.Decimal {
	v := decimal.NewFromInt(n)
	return &v
}

func rate(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
