package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVATTestEnv(t *testing.T) (VATService, *gorm.DB, model.User, model.Business) {
	t.Helper()
	db := newTestDB(t)
	owner := seedUser(t, db, model.RoleBusinessOwner)
	biz := seedBusiness(t, db, owner.ID)
	biz.VATRegistered = true
	require.NoError(t, db.Save(&biz).Error)

	txManager := repository.NewTransactionManager(db)
	auditRepo := repository.NewAuditRepository(db)
	configService := NewTaxConfigService(repository.NewTaxConfigRepository(db), auditRepo, txManager)

	svc := NewVATService(
		repository.NewVATRepository(db),
		repository.NewBusinessRepository(db),
		auditRepo,
		txManager,
		configService,
	)
	return svc, db, owner, biz
}

func createVATRecord(t *testing.T, svc VATService, userID, businessID, vatType, base, date string, zeroRated bool) VATRecordResponse {
	t.Helper()
	resp, err := svc.CreateRecord(context.Background(), userID, CreateVATRecordRequest{
		BusinessID:      businessID,
		Type:            vatType,
		BaseAmount:      base,
		IsZeroRated:     zeroRated,
		TransactionDate: date,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateVATRecordAppliesStandardRate(t *testing.T) {
	svc, _, owner, biz := newVATTestEnv(t)

	resp := createVATRecord(t, svc, owner.ID.String(), biz.ID.String(), model.VATOutput, "1000000", "2026-02-10", false)

	assert.Equal(t, "75000.00", resp.VATAmount)
	assert.Equal(t, "1075000.00", resp.TotalAmount)
	assert.False(t, resp.IsZeroRated)

	zero := createVATRecord(t, svc, owner.ID.String(), biz.ID.String(), model.VATOutput, "500000", "2026-02-11", true)
	assert.Equal(t, "0.00", zero.VATAmount)
	assert.Equal(t, "500000.00", zero.TotalAmount)
}

func TestCreateVATRecordRequiresRegistration(t *testing.T) {
	svc, db, owner, _ := newVATTestEnv(t)

	unregistered := seedBusiness(t, db, owner.ID)

	_, err := svc.CreateRecord(context.Background(), owner.ID.String(), CreateVATRecordRequest{
		BusinessID:      unregistered.ID.String(),
		Type:            model.VATOutput,
		BaseAmount:      "1000",
		TransactionDate: "2026-02-10",
	})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestQuarterlySummaryNetsOutputAgainstInput(t *testing.T) {
	svc, _, owner, biz := newVATTestEnv(t)
	ctx := context.Background()
	user := owner.ID.String()
	business := biz.ID.String()

	// Q1 2026
	createVATRecord(t, svc, user, business, model.VATOutput, "2000000", "2026-01-15", false) // 150,000 output
	createVATRecord(t, svc, user, business, model.VATOutput, "1000000", "2026-03-20", false) // 75,000 output
	createVATRecord(t, svc, user, business, model.VATInput, "800000", "2026-02-05", false)   // 60,000 input
	// Q2 entry must not leak into Q1
	createVATRecord(t, svc, user, business, model.VATOutput, "4000000", "2026-04-01", false)

	summary, err := svc.QuarterlySummary(ctx, business, 2026, 1)
	require.NoError(t, err)

	assert.Equal(t, "225000.00", summary.OutputVAT)
	assert.Equal(t, "60000.00", summary.InputVAT)
	assert.Equal(t, "165000.00", summary.NetVATDue)

	// Input can exceed output, leaving a negative net position
	createVATRecord(t, svc, user, business, model.VATInput, "10000000", "2026-04-10", false) // 750,000 input
	q2, err := svc.QuarterlySummary(ctx, business, 2026, 2)
	require.NoError(t, err)
	assert.Equal(t, "300000.00", q2.OutputVAT)
	assert.Equal(t, "-450000.00", q2.NetVATDue)

	_, err = svc.QuarterlySummary(ctx, business, 2026, 5)
	require.Error(t, err)
}

func TestListVATRecordsFiltersPeriod(t *testing.T) {
	svc, _, owner, biz := newVATTestEnv(t)
	ctx := context.Background()
	user := owner.ID.String()
	business := biz.ID.String()

	createVATRecord(t, svc, user, business, model.VATOutput, "100000", "2026-01-15", false)
	createVATRecord(t, svc, user, business, model.VATInput, "100000", "2026-07-15", false)
	createVATRecord(t, svc, user, business, model.VATOutput, "100000", "2025-12-31", false)

	q1, err := svc.ListRecords(ctx, business, 2026, 1)
	require.NoError(t, err)
	assert.Len(t, q1, 1)

	year, err := svc.ListRecords(ctx, business, 2026, 0)
	require.NoError(t, err)
	assert.Len(t, year, 2)

	all, err := svc.ListRecords(ctx, business, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
