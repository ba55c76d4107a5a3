package taxengine

import (
	"github.com/shopspring/decimal"
)

// ComputePresumptive calculates the flat-rate presumptive assessment for
// informal-sector taxpayers. The rate comes from the activity
// classification table; turnover at or below the minimum threshold owes
// nothing.
func ComputePresumptive(in PresumptiveInput, snap Snapshot) (Result, error) {
	ve, warnings := ValidatePresumptive(in, snap)
	if ve != nil {
		return Result{}, ve
	}

	presumptiveRate, ok := snap.PresumptiveRates[in.ActivityType]
	if !ok {
		presumptiveRate = snap.PresumptiveDefaultRate
	}
	ratePercent := percent(presumptiveRate)

	if in.EstimatedTurnover.LessThanOrEqual(snap.PresumptiveMinTurnover) {
		return Result{
			TaxType:       TaxTypePresumptive,
			GrossIncome:   in.EstimatedTurnover,
			Deductions:    decimal.Zero,
			TaxableIncome: decimal.Zero,
			TaxLiability:  decimal.Zero,
			NetIncome:     in.EstimatedTurnover,
			Breakdown: Breakdown{
				IsPresumptive:   true,
				ActivityType:    in.ActivityType,
				PresumptiveRate: &ratePercent,
				BelowThreshold:  true,
				EffectiveRate:   decimal.Zero,
			},
			Warnings: warnings,
		}, nil
	}

	liability := in.EstimatedTurnover.Mul(presumptiveRate)

	return Result{
		TaxType:       TaxTypePresumptive,
		GrossIncome:   in.EstimatedTurnover,
		Deductions:    decimal.Zero,
		TaxableIncome: in.EstimatedTurnover,
		TaxLiability:  round2(liability),
		NetIncome:     round2(in.EstimatedTurnover.Sub(liability)),
		Breakdown: Breakdown{
			IsPresumptive:   true,
			ActivityType:    in.ActivityType,
			PresumptiveRate: &ratePercent,
			EffectiveRate:   effectiveRatePercent(liability, in.EstimatedTurnover),
			MarginalRate:    ratePercent,
		},
		Warnings: warnings,
	}, nil
}
