package taxengine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeVAT(t *testing.T) {
	snap := DefaultSnapshot(2026)

	tcs := []struct {
		name      string
		input     VATInput
		wantVAT   string
		wantTotal string
	}{
		{
			name:      "standard rate",
			input:     VATInput{BaseAmount: d(1_000_000)},
			wantVAT:   "75000",
			wantTotal: "1075000",
		},
		{
			name:      "zero-rated supply carries no VAT",
			input:     VATInput{BaseAmount: d(100_000), IsZeroRated: true},
			wantVAT:   "0",
			wantTotal: "100000",
		},
		{
			name:      "zero base",
			input:     VATInput{},
			wantVAT:   "0",
			wantTotal: "0",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ComputeVAT(tc.input, snap)
			require.NoError(t, err)

			assert.Equal(t, TaxTypeVAT, res.TaxType)
			assert.True(t, res.TaxLiability.Equal(decimal.RequireFromString(tc.wantVAT)),
				"vat = %s, want %s", res.TaxLiability, tc.wantVAT)
			require.NotNil(t, res.Breakdown.TotalAmount)
			assert.True(t, res.Breakdown.TotalAmount.Equal(decimal.RequireFromString(tc.wantTotal)),
				"total = %s, want %s", res.Breakdown.TotalAmount, tc.wantTotal)
		})
	}
}

func TestComputeVATRejectsNegativeBase(t *testing.T) {
	snap := DefaultSnapshot(2026)

	_, err := ComputeVAT(VATInput{BaseAmount: d(-1)}, snap)
	require.Error(t, err)
}
