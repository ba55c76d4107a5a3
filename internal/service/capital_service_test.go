package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/taxengine"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCapitalTestEnv(t *testing.T) (CapitalService, *gorm.DB, model.User, model.Business) {
	t.Helper()
	db := newTestDB(t)
	owner := seedUser(t, db, model.RoleBusinessOwner)
	biz := seedBusiness(t, db, owner.ID)

	svc := NewCapitalService(
		repository.NewCapitalRepository(db),
		repository.NewBusinessRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		func(ctx context.Context, taxYear int) (taxengine.Snapshot, error) {
			return taxengine.DefaultSnapshot(taxYear), nil
		},
	)
	return svc, db, owner, biz
}

func recordExpenditure(t *testing.T, svc CapitalService, userID, businessID string, taxYear int, amount, date string) ExpenditureResponse {
	t.Helper()
	resp, err := svc.RecordExpenditure(context.Background(), userID, RecordExpenditureRequest{
		BusinessID:      businessID,
		Amount:          amount,
		ExpenditureDate: date,
		TaxYear:         taxYear,
		Description:     "production line equipment",
	})
	require.NoError(t, err)
	return resp
}

func TestRecordExpenditureEarnsCredit(t *testing.T) {
	svc, _, owner, biz := newCapitalTestEnv(t)

	// 5% of 10,000,000 carried for 5 years
	resp := recordExpenditure(t, svc, owner.ID.String(), biz.ID.String(), 2026, "10000000", "2026-03-15")

	assert.Equal(t, "500000.00", resp.CreditEarned)
	assert.Equal(t, "0.00", resp.CreditClaimed)
	assert.Equal(t, "500000.00", resp.CreditRemaining)
	assert.Equal(t, 2031, resp.ExpiryYear)
	assert.False(t, resp.FullyUtilized)

	credits, err := svc.AvailableCredits(context.Background(), biz.ID.String(), 2026)
	require.NoError(t, err)
	assert.Equal(t, "500000.00", credits.TotalAvailable)
	require.Len(t, credits.Entries, 1)
	assert.Equal(t, 2026, credits.Entries[0].OriginYear)
}

func TestRecordExpenditureRejectsBadInput(t *testing.T) {
	svc, _, owner, biz := newCapitalTestEnv(t)
	ctx := context.Background()

	_, err := svc.RecordExpenditure(ctx, owner.ID.String(), RecordExpenditureRequest{
		BusinessID:      biz.ID.String(),
		Amount:          "0",
		ExpenditureDate: "2026-01-01",
		TaxYear:         2026,
	})
	require.Error(t, err)

	_, err = svc.RecordExpenditure(ctx, owner.ID.String(), RecordExpenditureRequest{
		BusinessID:      uuid.NewString(),
		Amount:          "1000",
		ExpenditureDate: "2026-01-01",
		TaxYear:         2026,
	})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAllocateAppliesOldestCreditsFirst(t *testing.T) {
	svc, _, owner, biz := newCapitalTestEnv(t)
	ctx := context.Background()

	exp2024 := recordExpenditure(t, svc, owner.ID.String(), biz.ID.String(), 2024, "2000000", "2024-03-15") // 100,000 credit
	recordExpenditure(t, svc, owner.ID.String(), biz.ID.String(), 2025, "1000000", "2025-06-01")            // 50,000 credit

	alloc, err := svc.Allocate(ctx, owner.ID.String(), biz.ID.String(), 2026, decimal.NewFromInt(120_000))
	require.NoError(t, err)

	assert.Equal(t, "120000.00", alloc.CreditsApplied)
	assert.Equal(t, "0.00", alloc.RemainingTax)
	require.Len(t, alloc.CreditsUsed, 2)

	// 2024 credit drains completely before 2025 is touched
	assert.Equal(t, 2024, alloc.CreditsUsed[0].OriginYear)
	assert.Equal(t, "100000.00", alloc.CreditsUsed[0].Applied)
	assert.Equal(t, "0.00", alloc.CreditsUsed[0].RemainingAfter)
	assert.Equal(t, 2025, alloc.CreditsUsed[1].OriginYear)
	assert.Equal(t, "20000.00", alloc.CreditsUsed[1].Applied)
	assert.Equal(t, "30000.00", alloc.CreditsUsed[1].RemainingAfter)

	credits, err := svc.AvailableCredits(ctx, biz.ID.String(), 2026)
	require.NoError(t, err)
	assert.Equal(t, "30000.00", credits.TotalAvailable)
	require.Len(t, credits.Entries, 1)
	assert.Equal(t, 2025, credits.Entries[0].OriginYear)

	// The claim is mirrored onto the source expenditure
	mirrored, err := svc.GetExpenditure(ctx, exp2024.ID)
	require.NoError(t, err)
	assert.Equal(t, "100000.00", mirrored.CreditClaimed)
	assert.Equal(t, "0.00", mirrored.CreditRemaining)
	assert.True(t, mirrored.FullyUtilized)
}

func TestAllocateCreditsSmallerThanLiability(t *testing.T) {
	svc, _, owner, biz := newCapitalTestEnv(t)
	ctx := context.Background()

	recordExpenditure(t, svc, owner.ID.String(), biz.ID.String(), 2025, "1000000", "2025-06-01") // 50,000 credit

	alloc, err := svc.Allocate(ctx, owner.ID.String(), biz.ID.String(), 2026, decimal.NewFromInt(80_000))
	require.NoError(t, err)

	assert.Equal(t, "50000.00", alloc.CreditsApplied)
	assert.Equal(t, "30000.00", alloc.RemainingTax)

	// A second allocation finds nothing left
	again, err := svc.Allocate(ctx, owner.ID.String(), biz.ID.String(), 2026, decimal.NewFromInt(30_000))
	require.NoError(t, err)
	assert.Equal(t, "0.00", again.CreditsApplied)
	assert.Equal(t, "30000.00", again.RemainingTax)
	assert.Empty(t, again.CreditsUsed)
}

func TestAllocateSkipsExpiredCredits(t *testing.T) {
	svc, _, owner, biz := newCapitalTestEnv(t)
	ctx := context.Background()

	// Earned in 2020, expires after 2025, worthless in 2026
	recordExpenditure(t, svc, owner.ID.String(), biz.ID.String(), 2020, "2000000", "2020-03-15")

	alloc, err := svc.Allocate(ctx, owner.ID.String(), biz.ID.String(), 2026, decimal.NewFromInt(10_000))
	require.NoError(t, err)
	assert.Equal(t, "0.00", alloc.CreditsApplied)
	assert.Equal(t, "10000.00", alloc.RemainingTax)
	assert.Empty(t, alloc.CreditsUsed)

	credits, err := svc.AvailableCredits(ctx, biz.ID.String(), 2026)
	require.NoError(t, err)
	assert.Equal(t, "0.00", credits.TotalAvailable)
	assert.Empty(t, credits.Entries)

	// The same entry still counts in a year before its expiry
	credits, err = svc.AvailableCredits(ctx, biz.ID.String(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "100000.00", credits.TotalAvailable)
}

func TestAllocateRejectsNegativeLiability(t *testing.T) {
	svc, _, owner, biz := newCapitalTestEnv(t)

	_, err := svc.Allocate(context.Background(), owner.ID.String(), biz.ID.String(), 2026, decimal.NewFromInt(-1))
	require.Error(t, err)
}

func TestExpenditureLockedOnceCreditClaimed(t *testing.T) {
	svc, _, owner, biz := newCapitalTestEnv(t)
	ctx := context.Background()

	exp := recordExpenditure(t, svc, owner.ID.String(), biz.ID.String(), 2025, "1000000", "2025-06-01")

	_, err := svc.Allocate(ctx, owner.ID.String(), biz.ID.String(), 2026, decimal.NewFromInt(10_000))
	require.NoError(t, err)

	newAmount := "2000000"
	_, err = svc.UpdateExpenditure(ctx, owner.ID.String(), exp.ID, UpdateExpenditureRequest{Amount: &newAmount})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	err = svc.DeleteExpenditure(ctx, owner.ID.String(), exp.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	// Descriptive fields stay editable
	updated, err := svc.UpdateExpenditure(ctx, owner.ID.String(), exp.ID, UpdateExpenditureRequest{Description: "packaging machinery"})
	require.NoError(t, err)
	assert.Equal(t, "packaging machinery", updated.Description)
}

func TestUpdateExpenditureRecomputesCredit(t *testing.T) {
	svc, _, owner, biz := newCapitalTestEnv(t)
	ctx := context.Background()

	exp := recordExpenditure(t, svc, owner.ID.String(), biz.ID.String(), 2026, "1000000", "2026-02-01")

	newAmount := "3000000"
	updated, err := svc.UpdateExpenditure(ctx, owner.ID.String(), exp.ID, UpdateExpenditureRequest{Amount: &newAmount})
	require.NoError(t, err)
	assert.Equal(t, "150000.00", updated.CreditEarned)
	assert.Equal(t, "150000.00", updated.CreditRemaining)

	credits, err := svc.AvailableCredits(ctx, biz.ID.String(), 2026)
	require.NoError(t, err)
	assert.Equal(t, "150000.00", credits.TotalAvailable)
}

func TestDeleteExpenditureRemovesCarryForward(t *testing.T) {
	svc, db, owner, biz := newCapitalTestEnv(t)
	ctx := context.Background()

	exp := recordExpenditure(t, svc, owner.ID.String(), biz.ID.String(), 2026, "1000000", "2026-02-01")
	require.NoError(t, svc.DeleteExpenditure(ctx, owner.ID.String(), exp.ID))

	credits, err := svc.AvailableCredits(ctx, biz.ID.String(), 2026)
	require.NoError(t, err)
	assert.Empty(t, credits.Entries)

	var count int64
	require.NoError(t, db.Model(&model.TaxCreditCarryForward{}).Count(&count).Error)
	assert.Zero(t, count)
}
