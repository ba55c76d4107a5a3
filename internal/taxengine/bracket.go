package taxengine

import (
	"backend/pkg/apperr"

	"github.com/shopspring/decimal"
)

// Bracket is one progressive tax slab. Upper == nil means unbounded.
type Bracket struct {
	Lower decimal.Decimal  `json:"lower"`
	Upper *decimal.Decimal `json:"upper"`
	Rate  decimal.Decimal  `json:"rate"`
}

// SlabContribution records how one bracket contributed to the total so the
// result can be audited deterministically from the inputs.
type SlabContribution struct {
	From          decimal.Decimal  `json:"from"`
	To            *decimal.Decimal `json:"to"`
	RatePercent   decimal.Decimal  `json:"rate_percent"`
	TaxableAmount decimal.Decimal  `json:"taxable_amount"`
	Tax           decimal.Decimal  `json:"tax"`
}

// ValidateBrackets checks the table is ordered, contiguous from zero and
// covers [0, inf). A bad table is a configuration defect, not user input.
func ValidateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return apperr.Invariant("bracket table is empty")
	}
	if !brackets[0].Lower.IsZero() {
		return apperr.Invariant("bracket table must start at 0, starts at %s", brackets[0].Lower)
	}
	for i, b := range brackets {
		if b.Rate.IsNegative() {
			return apperr.Invariant("bracket %d has negative rate %s", i, b.Rate)
		}
		last := i == len(brackets)-1
		if last {
			if b.Upper != nil {
				return apperr.Invariant("final bracket must be unbounded")
			}
			continue
		}
		if b.Upper == nil {
			return apperr.Invariant("bracket %d is unbounded but not final", i)
		}
		if b.Upper.LessThanOrEqual(b.Lower) {
			return apperr.Invariant("bracket %d has upper %s <= lower %s", i, b.Upper, b.Lower)
		}
		if !brackets[i+1].Lower.Equal(*b.Upper) {
			return apperr.Invariant("gap between bracket %d upper %s and bracket %d lower %s",
				i, b.Upper, i+1, brackets[i+1].Lower)
		}
	}
	return nil
}

// walkBrackets applies the progressive table to taxable income. Intermediate
// arithmetic stays unrounded; callers round at the point of reporting.
// Returns total tax, the per-slab breakdown, and the marginal rate (percent)
// of the last bracket touched.
func walkBrackets(brackets []Bracket, taxable decimal.Decimal) (decimal.Decimal, []SlabContribution, decimal.Decimal) {
	remaining := taxable
	total := decimal.Zero
	marginal := decimal.Zero
	var slabs []SlabContribution

	for _, b := range brackets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		taxableIn := remaining
		if b.Upper != nil {
			width := b.Upper.Sub(b.Lower)
			if width.LessThan(taxableIn) {
				taxableIn = width
			}
		}

		tax := taxableIn.Mul(b.Rate)
		slabs = append(slabs, SlabContribution{
			From:          b.Lower,
			To:            b.Upper,
			RatePercent:   b.Rate.Mul(decimal.NewFromInt(100)),
			TaxableAmount: taxableIn,
			Tax:           tax,
		})

		total = total.Add(tax)
		marginal = b.Rate.Mul(decimal.NewFromInt(100))
		remaining = remaining.Sub(taxableIn)
	}

	return total, slabs, marginal
}
