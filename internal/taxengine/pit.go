package taxengine

import (
	"github.com/shopspring/decimal"
)

// ComputePIT calculates personal income tax by applying the year's reliefs
// and walking the progressive bracket table. Pure and deterministic: the
// same input and snapshot always produce the same result.
func ComputePIT(in PITInput, snap Snapshot) (Result, error) {
	ve, warnings := ValidatePIT(in, snap)
	if ve != nil {
		return Result{}, ve
	}
	if err := ValidateBrackets(snap.PITBrackets); err != nil {
		return Result{}, err
	}

	reliefs := Reliefs{
		PensionContribution: in.PensionContribution,
		HealthInsurance:     in.HealthInsurance,
	}
	if in.RentPaid.IsPositive() {
		reliefs.RentRelief = decimal.Min(snap.RentReliefCap, in.RentPaid.Mul(snap.RentReliefRate))
	} else {
		reliefs.RentRelief = decimal.Zero
	}

	deductions := reliefs.Total()
	taxable := in.GrossIncome.Sub(deductions)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	totalTax, slabs, marginal := walkBrackets(snap.PITBrackets, taxable)

	return Result{
		TaxType:       TaxTypePIT,
		GrossIncome:   in.GrossIncome,
		Deductions:    deductions,
		Reliefs:       reliefs,
		TaxableIncome: taxable,
		TaxLiability:  round2(totalTax),
		NetIncome:     round2(in.GrossIncome.Sub(totalTax)),
		Breakdown: Breakdown{
			Slabs:         slabs,
			EffectiveRate: effectiveRatePercent(totalTax, taxable),
			MarginalRate:  marginal,
			Reliefs:       &reliefs,
		},
		Warnings: warnings,
	}, nil
}
