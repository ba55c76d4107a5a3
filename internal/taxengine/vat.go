package taxengine

import (
	"github.com/shopspring/decimal"
)

// ComputeVAT calculates value-added tax on a single transaction amount.
// Zero-rated supplies carry no VAT but still report the full total.
func ComputeVAT(in VATInput, snap Snapshot) (Result, error) {
	ve, warnings := ValidateVAT(in)
	if ve != nil {
		return Result{}, ve
	}

	vatRate := snap.VATStandardRate
	if in.IsZeroRated {
		vatRate = decimal.Zero
	}

	vatAmount := round2(in.BaseAmount.Mul(vatRate))
	total := round2(in.BaseAmount.Add(vatAmount))
	ratePercent := percent(vatRate)

	return Result{
		TaxType:       TaxTypeVAT,
		GrossIncome:   in.BaseAmount,
		Deductions:    decimal.Zero,
		TaxableIncome: in.BaseAmount,
		TaxLiability:  vatAmount,
		NetIncome:     in.BaseAmount,
		Breakdown: Breakdown{
			EffectiveRate: effectiveRatePercent(vatAmount, in.BaseAmount),
			MarginalRate:  ratePercent,
			VATRate:       &ratePercent,
			VATAmount:     &vatAmount,
			TotalAmount:   &total,
		},
		Warnings: warnings,
	}, nil
}
