package taxengine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBrackets(t *testing.T) {
	tcs := []struct {
		name     string
		brackets []Bracket
		wantErr  bool
	}{
		{
			name:     "default 2026 table is contiguous from zero",
			brackets: DefaultSnapshot(2026).PITBrackets,
			wantErr:  false,
		},
		{
			name:     "empty table",
			brackets: nil,
			wantErr:  true,
		},
		{
			name: "table not starting at zero",
			brackets: []Bracket{
				{Lower: d(100), Upper: nil, Rate: rate("0.1")},
			},
			wantErr: true,
		},
		{
			name: "gap between brackets",
			brackets: []Bracket{
				{Lower: d(0), Upper: dp(1000), Rate: rate("0")},
				{Lower: d(2000), Upper: nil, Rate: rate("0.1")},
			},
			wantErr: true,
		},
		{
			name: "final bracket bounded",
			brackets: []Bracket{
				{Lower: d(0), Upper: dp(1000), Rate: rate("0.1")},
			},
			wantErr: true,
		},
		{
			name: "negative rate",
			brackets: []Bracket{
				{Lower: d(0), Upper: dp(1000), Rate: rate("-0.1")},
				{Lower: d(1000), Upper: nil, Rate: rate("0.1")},
			},
			wantErr: true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBrackets(tc.brackets)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPITMonotonicity(t *testing.T) {
	snap := DefaultSnapshot(2026)

	prev := decimal.Zero
	for income := int64(0); income <= 60_000_000; income += 500_000 {
		res, err := ComputePIT(PITInput{GrossIncome: d(income)}, snap)
		require.NoError(t, err)
		assert.True(t, res.TaxLiability.GreaterThanOrEqual(prev),
			"tax at income %d (%s) dropped below tax at previous step (%s)",
			income, res.TaxLiability, prev)
		prev = res.TaxLiability
	}
}

func TestPITBoundaryContinuity(t *testing.T) {
	snap := DefaultSnapshot(2026)
	one := decimal.NewFromInt(1)

	for i, b := range snap.PITBrackets {
		if b.Upper == nil {
			continue
		}
		atTop, err := ComputePIT(PITInput{GrossIncome: *b.Upper}, snap)
		require.NoError(t, err)
		justOver, err := ComputePIT(PITInput{GrossIncome: b.Upper.Add(one)}, snap)
		require.NoError(t, err)

		// One extra unit of income is taxed at exactly the next bracket's
		// rate; no off-by-one jump at the seam.
		nextRate := snap.PITBrackets[i+1].Rate
		diff := justOver.TaxLiability.Sub(atTop.TaxLiability)
		assert.True(t, diff.Equal(nextRate.Round(2)),
			"bracket %d boundary: tax step %s, next rate %s", i, diff, nextRate)
	}
}
