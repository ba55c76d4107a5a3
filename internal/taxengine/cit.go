package taxengine

import (
	"fmt"

	"backend/pkg/apperr"

	"github.com/shopspring/decimal"
)

// ComputeCIT calculates company income tax. Classification runs in priority
// order: documented exempt-organization status, agricultural tax holiday,
// small-company zero rate, then the standard flat rate with the development
// levy and the large-company minimum effective tax rate floor.
func ComputeCIT(in CITInput, snap Snapshot) (Result, error) {
	ve, warnings := ValidateCIT(in, snap)
	if ve != nil {
		return Result{}, ve
	}

	assessable := in.AssessableProfits
	if assessable.IsZero() {
		assessable = in.AnnualTurnover.Mul(snap.AssessableProfitRatio)
	}

	if isExemptOrgType(in.BusinessType) && in.TaxExemptStatus {
		return citExemptResult(in, assessable, "Exempt organization (NGO/charity) status", warnings), nil
	}

	if in.IsAgricultural && in.AgriStartDate != nil {
		// Year granularity is deliberate: a business starting mid-year gets
		// the remainder of that calendar year on top of the holiday window.
		yearsInOperation := snap.TaxYear - in.AgriStartDate.Year()
		if yearsInOperation < snap.AgriHolidayYears {
			reason := fmt.Sprintf("Agricultural tax holiday (year %d of %d)", yearsInOperation+1, snap.AgriHolidayYears)
			return citExemptResult(in, assessable, reason, warnings), nil
		}
	}

	taxRate := snap.CITStandardRate
	isSmall := in.AnnualTurnover.LessThanOrEqual(snap.SMETurnoverThreshold) &&
		in.AssetValue.LessThanOrEqual(snap.SMEAssetThreshold)
	if isSmall {
		taxRate = decimal.Zero
	}

	isLarge := in.AnnualTurnover.GreaterThanOrEqual(snap.LargeCompanyThreshold)

	finalTax := assessable.Mul(taxRate)
	if isLarge && !isSmall {
		floor := assessable.Mul(snap.MinimumEffectiveTaxRate)
		finalTax = decimal.Max(finalTax, floor)
	}

	// The development levy is reported alongside the liability but never
	// folded into it.
	developmentLevy := decimal.Zero
	if !isSmall {
		developmentLevy = assessable.Mul(snap.DevelopmentLevyRate)
	}
	levy := round2(developmentLevy)
	burden := round2(finalTax.Add(developmentLevy))

	return Result{
		TaxType:       TaxTypeCIT,
		GrossIncome:   in.AnnualTurnover,
		Deductions:    decimal.Zero,
		TaxableIncome: assessable,
		TaxLiability:  round2(finalTax),
		NetIncome:     round2(assessable.Sub(finalTax).Sub(developmentLevy)),
		Breakdown: Breakdown{
			EffectiveRate:   effectiveRatePercent(finalTax, assessable),
			MarginalRate:    percent(taxRate),
			IsSmallCompany:  isSmall,
			IsLargeCompany:  isLarge,
			DevelopmentLevy: &levy,
			TotalTaxBurden:  &burden,
		},
		Warnings: warnings,
	}, nil
}

func citExemptResult(in CITInput, assessable decimal.Decimal, reason string, warnings []apperr.FieldError) Result {
	zero := decimal.Zero
	return Result{
		TaxType:       TaxTypeCIT,
		GrossIncome:   in.AnnualTurnover,
		Deductions:    decimal.Zero,
		TaxableIncome: assessable,
		TaxLiability:  decimal.Zero,
		NetIncome:     assessable,
		Breakdown: Breakdown{
			EffectiveRate:   decimal.Zero,
			MarginalRate:    decimal.Zero,
			IsExempt:        true,
			ExemptionReason: reason,
			DevelopmentLevy: &zero,
			TotalTaxBurden:  &zero,
		},
		Warnings: warnings,
	}
}
