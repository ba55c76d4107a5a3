package taxengine

import (
	"github.com/shopspring/decimal"
)

// ComputeCGT calculates capital gains tax. Each exemption condition is an
// independent short-circuit; when several apply, the last one evaluated is
// the reason reported. Companies pay a flat rate; individuals route the
// gain through the PIT bracket table with no reliefs.
func ComputeCGT(in CGTInput, snap Snapshot) (Result, error) {
	ve, warnings := ValidateCGT(in, snap)
	if ve != nil {
		return Result{}, ve
	}

	gain := in.Proceeds.Sub(in.CostBasis)

	isExempt := false
	exemptionReason := ""

	if in.Proceeds.LessThan(snap.CGTProceedsExemptionCap) && gain.LessThan(snap.CGTGainExemptionCap) {
		isExempt = true
		exemptionReason = "Small transaction: proceeds and gain below exemption thresholds"
	}
	if in.IsPrivateResidence {
		isExempt = true
		exemptionReason = "Private residence exemption"
	}
	if in.IsPersonalVehicle && in.VehicleCount <= 2 {
		isExempt = true
		exemptionReason = "Personal vehicle exemption (up to 2 vehicles)"
	}
	if in.IsLossOfOffice && in.Proceeds.LessThanOrEqual(snap.SeveranceExemptionCap) {
		isExempt = true
		exemptionReason = "Loss-of-office exemption"
	}

	if isExempt {
		return Result{
			TaxType:       TaxTypeCGT,
			GrossIncome:   in.Proceeds,
			Deductions:    in.CostBasis,
			TaxableIncome: gain,
			TaxLiability:  decimal.Zero,
			NetIncome:     gain,
			Breakdown: Breakdown{
				IsExempt:        true,
				ExemptionReason: exemptionReason,
				CapitalGain:     &gain,
			},
			Warnings: warnings,
		}, nil
	}

	if !gain.IsPositive() {
		// Capital loss: nothing to tax.
		return Result{
			TaxType:       TaxTypeCGT,
			GrossIncome:   in.Proceeds,
			Deductions:    in.CostBasis,
			TaxableIncome: gain,
			TaxLiability:  decimal.Zero,
			NetIncome:     gain,
			Breakdown:     Breakdown{CapitalGain: &gain, IsCompany: in.IsCompany},
			Warnings:      warnings,
		}, nil
	}

	if !in.IsCompany {
		// Individuals: the gain substitutes for gross income through the
		// progressive brackets, with no reliefs applied.
		pitResult, err := ComputePIT(PITInput{GrossIncome: gain}, snap)
		if err != nil {
			return Result{}, err
		}
		pitResult.TaxType = TaxTypeCGT
		pitResult.Breakdown.CapitalGain = &gain
		pitResult.Warnings = append(warnings, pitResult.Warnings...)
		return pitResult, nil
	}

	liability := gain.Mul(snap.CGTCompanyRate)
	return Result{
		TaxType:       TaxTypeCGT,
		GrossIncome:   in.Proceeds,
		Deductions:    in.CostBasis,
		TaxableIncome: gain,
		TaxLiability:  round2(liability),
		NetIncome:     round2(gain.Sub(liability)),
		Breakdown: Breakdown{
			EffectiveRate: effectiveRatePercent(liability, gain),
			MarginalRate:  percent(snap.CGTCompanyRate),
			CapitalGain:   &gain,
			IsCompany:     true,
		},
		Warnings: warnings,
	}, nil
}
