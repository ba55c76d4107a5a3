package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu   sync.Mutex
	refs []string
}

func (n *recordingNotifier) NotifyReturnSubmitted(returnID, userID string, taxYear int, taxType, firsRef string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.refs = append(n.refs, firsRef)
}

func newReturnTestEnv(t *testing.T) (TaxReturnService, *gorm.DB, model.User, *recordingNotifier) {
	t.Helper()
	db := newTestDB(t)
	user := seedUser(t, db, model.RoleTaxpayer)

	txManager := repository.NewTransactionManager(db)
	auditRepo := repository.NewAuditRepository(db)
	configService := NewTaxConfigService(repository.NewTaxConfigRepository(db), auditRepo, txManager)
	notifier := &recordingNotifier{}

	svc := NewTaxReturnService(
		repository.NewTaxReturnRepository(db),
		repository.NewIncomeRepository(db),
		repository.NewBusinessRepository(db),
		repository.NewDocumentRepository(db),
		auditRepo,
		txManager,
		configService,
		notifier,
	)
	return svc, db, user, notifier
}

func seedIncome(t *testing.T, db *gorm.DB, userID uuid.UUID, taxYear int, source string, amount int64) {
	t.Helper()
	rec := model.IncomeRecord{
		UserID:     userID,
		Source:     source,
		Amount:     decimal.NewFromInt(amount),
		TaxYear:    taxYear,
		IncomeDate: time.Date(taxYear, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&rec).Error)
}

func seedDocument(t *testing.T, db *gorm.DB, userID uuid.UUID, taxYear int, docType, status string) {
	t.Helper()
	doc := model.Document{
		UserID:       &userID,
		DocumentType: docType,
		FileName:     docType + ".pdf",
		FileURL:      "https://files.example.com/" + docType + ".pdf",
		TaxYear:      taxYear,
		Status:       status,
	}
	require.NoError(t, db.Create(&doc).Error)
}

func TestGenerateReturnAggregatesIncome(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 3_000_000)
	seedIncome(t, db, user.ID, 2026, model.IncomeFreelance, 2_000_000)
	seedIncome(t, db, user.ID, 2025, model.IncomeSalary, 1_000_000) // other year, ignored
	seedDocument(t, db, user.ID, 2026, model.DocPayslip, model.DocStatusVerified)

	resp, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT"})
	require.NoError(t, err)

	assert.Equal(t, "5000000.00", resp.TotalIncome)
	// 2.2M at 15% plus 2M at 18%
	assert.Equal(t, "690000.00", resp.TaxLiability)
	assert.Equal(t, model.ReturnStatusDraft, resp.Status)
	assert.True(t, resp.Documentation.Complete)
	assert.False(t, resp.Submitted)
}

func TestGenerateReturnAppliesReliefs(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 5_000_000)
	seedDocument(t, db, user.ID, 2026, model.DocPayslip, model.DocStatusVerified)
	seedDocument(t, db, user.ID, 2026, model.DocRentReceipt, model.DocStatusVerified)

	resp, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{
		TaxYear:         2026,
		TaxType:         "PIT",
		RentPaid:        "1200000",
		LandlordName:    "A. Bello",
		LandlordAddress: "14 Marina Road, Lagos",
		LandlordTIN:     "TIN-0042",
		TaxPaid:         "100000",
	})
	require.NoError(t, err)

	assert.Equal(t, "240000.00", resp.TotalReliefs)
	assert.Equal(t, "4760000.00", resp.TaxableIncome)
	assert.Equal(t, "646800.00", resp.TaxLiability)
	assert.Equal(t, "546800.00", resp.TaxDue)
	assert.True(t, resp.Documentation.Complete)
}

func TestGenerateReturnFlagsMissingEvidence(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 2_000_000)
	// Rejected uploads never count as evidence
	seedDocument(t, db, user.ID, 2026, model.DocPayslip, model.DocStatusRejected)

	resp, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT"})
	require.NoError(t, err)

	assert.False(t, resp.Documentation.Complete)
	assert.Contains(t, resp.Documentation.MissingDocuments, model.DocIncomeStatement)
	assert.NotEmpty(t, resp.Documentation.ValidationErrors)

	// Filing is blocked until the evidence arrives
	_, err = svc.Submit(ctx, user.ID.String(), resp.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestGenerateReturnUpsertsDraft(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 2_000_000)

	first, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT"})
	require.NoError(t, err)

	seedDocument(t, db, user.ID, 2026, model.DocPayslip, model.DocStatusVerified)
	second, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Documentation.Complete)

	list, err := svc.ListReturns(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerateCITReturnRequiresBusiness(t *testing.T) {
	svc, _, user, _ := newReturnTestEnv(t)

	_, err := svc.Generate(context.Background(), user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "CIT"})
	require.Error(t, err)

	ve, ok := apperr.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "business_id", ve.Errors[0].Field)
}

func TestGenerateCITReturnForSmallCompany(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	biz := seedBusiness(t, db, user.ID)
	biz.AnnualTurnover = decimal.NewFromInt(50_000_000)
	biz.AssetValue = decimal.NewFromInt(20_000_000)
	require.NoError(t, db.Save(&biz).Error)

	seedDocument(t, db, user.ID, 2026, model.DocIncomeStatement, model.DocStatusVerified)
	seedDocument(t, db, user.ID, 2026, model.DocCACRegistration, model.DocStatusVerified)

	resp, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{
		TaxYear:    2026,
		TaxType:    "CIT",
		BusinessID: biz.ID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, "50000000.00", resp.TotalIncome)
	assert.Equal(t, "0.00", resp.TaxLiability) // small-company zero rate
	assert.True(t, resp.Documentation.Complete)
	require.NotNil(t, resp.BusinessID)
	assert.Equal(t, biz.ID.String(), *resp.BusinessID)
}

func TestGenerateCITDraftsArePerBusiness(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	first := seedBusiness(t, db, user.ID)
	second := model.Business{
		OwnerID:      user.ID,
		Name:         "Adeyemi Textiles Ltd",
		Sector:       model.SectorManufacturing,
		Size:         model.SizeSmall,
		BusinessType: "company",
	}
	require.NoError(t, db.Create(&second).Error)

	seedDocument(t, db, user.ID, 2026, model.DocIncomeStatement, model.DocStatusVerified)
	seedDocument(t, db, user.ID, 2026, model.DocCACRegistration, model.DocStatusVerified)

	draftA, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "CIT", BusinessID: first.ID.String()})
	require.NoError(t, err)
	draftB, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "CIT", BusinessID: second.ID.String()})
	require.NoError(t, err)

	// Each business holds its own draft for the same year and type
	assert.NotEqual(t, draftA.ID, draftB.ID)
	list, err := svc.ListReturns(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// Filing one business's return neither blocks nor overwrites the other's
	_, err = svc.Submit(ctx, user.ID.String(), draftA.ID)
	require.NoError(t, err)

	regenB, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "CIT", BusinessID: second.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, draftB.ID, regenB.ID)

	_, err = svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "CIT", BusinessID: first.ID.String()})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestUpdateKeepsReliefEvidenceRequirement(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 5_000_000)
	seedDocument(t, db, user.ID, 2026, model.DocPayslip, model.DocStatusVerified)

	gen, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{
		TaxYear:         2026,
		TaxType:         "PIT",
		RentPaid:        "1200000",
		LandlordName:    "A. Bello",
		LandlordAddress: "14 Marina Road, Lagos",
	})
	require.NoError(t, err)
	assert.False(t, gen.Documentation.Complete)
	assert.Contains(t, gen.Documentation.MissingDocuments, model.DocRentReceipt)

	// A notes-only update must not launder away the rent-receipt requirement
	updated, err := svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Notes: "chasing the landlord"})
	require.NoError(t, err)
	assert.False(t, updated.Documentation.Complete)
	assert.Contains(t, updated.Documentation.MissingDocuments, model.DocRentReceipt)

	_, err = svc.Submit(ctx, user.ID.String(), gen.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	// The receipt arriving clears the requirement on the next touch
	seedDocument(t, db, user.ID, 2026, model.DocRentReceipt, model.DocStatusVerified)
	cleared, err := svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Notes: "receipt uploaded"})
	require.NoError(t, err)
	assert.True(t, cleared.Documentation.Complete)

	_, err = svc.Submit(ctx, user.ID.String(), gen.ID)
	require.NoError(t, err)
}

func TestSubmitFilesReturnAndNotifies(t *testing.T) {
	svc, db, user, notifier := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 2_000_000)
	seedDocument(t, db, user.ID, 2026, model.DocPayslip, model.DocStatusVerified)

	gen, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT"})
	require.NoError(t, err)

	filed, err := svc.Submit(ctx, user.ID.String(), gen.ID)
	require.NoError(t, err)

	assert.Equal(t, model.ReturnStatusFiled, filed.Status)
	assert.True(t, filed.Submitted)
	require.NotNil(t, filed.SubmissionDate)
	assert.True(t, strings.HasPrefix(filed.FIRSReferenceNumber, "FIRS-PIT-2026-"))
	assert.Len(t, filed.FIRSReferenceNumber, len("FIRS-PIT-2026-")+8)

	require.Len(t, notifier.refs, 1)
	assert.Equal(t, filed.FIRSReferenceNumber, notifier.refs[0])

	// Second submission is rejected
	_, err = svc.Submit(ctx, user.ID.String(), gen.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestFiledReturnIsImmutable(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 2_000_000)
	seedDocument(t, db, user.ID, 2026, model.DocPayslip, model.DocStatusVerified)

	gen, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, user.ID.String(), gen.ID)
	require.NoError(t, err)

	// Edits bounce
	_, err = svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Notes: "late correction"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	// Regeneration for the same (year, type) bounces
	_, err = svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	// Deletion bounces
	err = svc.Delete(ctx, user.ID.String(), gen.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	// The regulator outcome is the only transition left
	accepted, err := svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Status: model.ReturnStatusAccepted})
	require.NoError(t, err)
	assert.Equal(t, model.ReturnStatusAccepted, accepted.Status)
}

func TestReturnOutcomeCannotEditFigures(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 2_000_000)
	seedDocument(t, db, user.ID, 2026, model.DocPayslip, model.DocStatusVerified)

	gen, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT", TaxPaid: "50000"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, user.ID.String(), gen.ID)
	require.NoError(t, err)

	// The acceptance cannot smuggle in a tax-paid or notes edit
	paid := "0"
	_, err = svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Status: model.ReturnStatusAccepted, TaxPaid: &paid})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	_, err = svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Status: model.ReturnStatusAccepted, Notes: "adjusted"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	accepted, err := svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Status: model.ReturnStatusAccepted})
	require.NoError(t, err)
	assert.Equal(t, model.ReturnStatusAccepted, accepted.Status)
	assert.Equal(t, "50000.00", accepted.TaxPaid)
}

func TestReturnStatusTransitions(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 2_000_000)
	seedDocument(t, db, user.ID, 2026, model.DocPayslip, model.DocStatusVerified)

	gen, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT"})
	require.NoError(t, err)

	// draft cannot jump straight to filed or accepted
	_, err = svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Status: model.ReturnStatusFiled})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	_, err = svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Status: model.ReturnStatusAccepted})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	reviewed, err := svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Status: model.ReturnStatusPendingReview})
	require.NoError(t, err)
	assert.Equal(t, model.ReturnStatusPendingReview, reviewed.Status)

	ready, err := svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Status: model.ReturnStatusReadyToFile})
	require.NoError(t, err)
	assert.Equal(t, model.ReturnStatusReadyToFile, ready.Status)
}

func TestUpdateRevalidationIsIdempotent(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 2_000_000)

	gen, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT"})
	require.NoError(t, err)
	assert.False(t, gen.Documentation.Complete)

	// Same document set, same verdict, twice
	first, err := svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Notes: "awaiting payslip"})
	require.NoError(t, err)
	second, err := svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Notes: "still awaiting payslip"})
	require.NoError(t, err)
	assert.Equal(t, first.Documentation, second.Documentation)

	// Uploading the evidence flips the verdict on the next touch
	seedDocument(t, db, user.ID, 2026, model.DocPayslip, model.DocStatusVerified)
	third, err := svc.Update(ctx, user.ID.String(), gen.ID, UpdateReturnRequest{Notes: "payslip uploaded"})
	require.NoError(t, err)
	assert.True(t, third.Documentation.Complete)
}

func TestDeleteDraftReturn(t *testing.T) {
	svc, db, user, _ := newReturnTestEnv(t)
	ctx := context.Background()

	seedIncome(t, db, user.ID, 2026, model.IncomeSalary, 2_000_000)

	gen, err := svc.Generate(ctx, user.ID.String(), GenerateReturnRequest{TaxYear: 2026, TaxType: "PIT"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, user.ID.String(), gen.ID))

	list, err := svc.ListReturns(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Empty(t, list)
}
