package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/taxengine"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnNotifier pushes live events to connected reviewers. A nil notifier
// disables notifications.
type ReturnNotifier interface {
	NotifyReturnSubmitted(returnID, userID string, taxYear int, taxType, firsRef string)
}

// --- DTOs ---

type GenerateReturnRequest struct {
	TaxYear    int    `json:"tax_year" binding:"required"`
	TaxType    string `json:"tax_type" binding:"required,oneof=PIT CIT"`
	BusinessID string `json:"business_id"`

	// PIT relief claims carried into the return
	RentPaid            string `json:"rent_paid"`
	PensionContribution string `json:"pension_contribution"`
	HealthInsurance     string `json:"health_insurance"`
	LandlordName        string `json:"landlord_name"`
	LandlordAddress     string `json:"landlord_address"`
	LandlordTIN         string `json:"landlord_tin"`
	PensionProviderName string `json:"pension_provider_name"`
	HealthProviderName  string `json:"health_provider_name"`

	TaxPaid string `json:"tax_paid"`
	Notes   string `json:"notes"`
}

type UpdateReturnRequest struct {
	Status          string `json:"status"`
	TaxPaid         *string `json:"tax_paid"`
	Notes           string `json:"notes"`
	RejectionReason string `json:"rejection_reason"`
}

type DocumentationStatus struct {
	Complete         bool     `json:"complete"`
	MissingDocuments []string `json:"missing_documents"`
	ValidationErrors []string `json:"validation_errors"`
}

type TaxReturnResponse struct {
	ID                    string              `json:"id"`
	UserID                string              `json:"user_id"`
	BusinessID            *string             `json:"business_id"`
	TaxYear               int                 `json:"tax_year"`
	TaxType               string              `json:"tax_type"`
	TotalIncome           string              `json:"total_income"`
	TotalDeductions       string              `json:"total_deductions"`
	TotalReliefs          string              `json:"total_reliefs"`
	TaxableIncome         string              `json:"taxable_income"`
	TaxLiability          string              `json:"tax_liability"`
	TaxPaid               string              `json:"tax_paid"`
	TaxDue                string              `json:"tax_due"`
	Status                string              `json:"status"`
	Documentation         DocumentationStatus `json:"documentation"`
	Submitted             bool                `json:"submitted"`
	SubmissionDate        *string             `json:"submission_date"`
	FIRSReferenceNumber   string              `json:"firs_reference_number"`
	Notes                 string              `json:"notes"`
	RejectionReason       string              `json:"rejection_reason"`
	CreatedAt             string              `json:"created_at"`
	UpdatedAt             string              `json:"updated_at"`
}

// --- Interface ---

// TaxReturnService assembles yearly filings: aggregate income, run the
// engine, check documentation, and walk the draft -> filed lifecycle. A
// filed return is immutable.
type TaxReturnService interface {
	Generate(ctx context.Context, userID string, req GenerateReturnRequest) (TaxReturnResponse, error)
	GetReturn(ctx context.Context, id string) (TaxReturnResponse, error)
	ListReturns(ctx context.Context, userID string) ([]TaxReturnResponse, error)
	ListAllReturns(ctx context.Context, status string, page, limit int) ([]TaxReturnResponse, int64, error)
	Update(ctx context.Context, userID, id string, req UpdateReturnRequest) (TaxReturnResponse, error)
	Submit(ctx context.Context, userID, id string) (TaxReturnResponse, error)
	Delete(ctx context.Context, userID, id string) error
}

type taxReturnService struct {
	returnRepo    repository.TaxReturnRepository
	incomeRepo    repository.IncomeRepository
	businessRepo  repository.BusinessRepository
	documentRepo  repository.DocumentRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	configService TaxConfigService
	notifier      ReturnNotifier
}

func NewTaxReturnService(
	returnRepo repository.TaxReturnRepository,
	incomeRepo repository.IncomeRepository,
	businessRepo repository.BusinessRepository,
	documentRepo repository.DocumentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	configService TaxConfigService,
	notifier ReturnNotifier,
) TaxReturnService {
	return &taxReturnService{
		returnRepo:    returnRepo,
		incomeRepo:    incomeRepo,
		businessRepo:  businessRepo,
		documentRepo:  documentRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		configService: configService,
		notifier:      notifier,
	}
}

// --- Implementation ---

func (s *taxReturnService) Generate(ctx context.Context, userID string, req GenerateReturnRequest) (TaxReturnResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return TaxReturnResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	var business *model.Business
	var businessUUID *uuid.UUID
	if req.TaxType == taxengine.TaxTypeCIT {
		if req.BusinessID == "" {
			return TaxReturnResponse{}, &apperr.ValidationError{Errors: []apperr.FieldError{{Field: "business_id", Message: "business_id is required for CIT returns"}}}
		}
		parsed, parseErr := uuid.Parse(req.BusinessID)
		if parseErr != nil {
			return TaxReturnResponse{}, fmt.Errorf("invalid business_id: %w", parseErr)
		}
		business, err = s.businessRepo.GetByID(ctx, parsed)
		if err != nil {
			return TaxReturnResponse{}, apperr.NotFound("business")
		}
		businessUUID = &business.ID
	}

	// A filed return for the same (user, business, year, type) blocks regeneration
	existing, getErr := s.returnRepo.GetByUserAndYear(ctx, user, businessUUID, req.TaxYear, req.TaxType)
	if getErr == nil && existing.Status == model.ReturnStatusFiled {
		return TaxReturnResponse{}, apperr.Conflict("a filed %s return already exists for %d", req.TaxType, req.TaxYear)
	}

	snap, err := s.configService.Snapshot(ctx, req.TaxYear)
	if err != nil {
		return TaxReturnResponse{}, err
	}

	totalIncome, err := s.incomeRepo.SumByUserAndYear(ctx, user, req.TaxYear)
	if err != nil {
		return TaxReturnResponse{}, fmt.Errorf("failed to aggregate income: %w", err)
	}

	taxPaid := decimal.Zero
	if req.TaxPaid != "" {
		taxPaid, err = decimal.NewFromString(req.TaxPaid)
		if err != nil {
			return TaxReturnResponse{}, fmt.Errorf("invalid tax_paid: %w", err)
		}
	}

	var result taxengine.Result

	switch req.TaxType {
	case taxengine.TaxTypeCIT:
		in := taxengine.CITInput{
			BusinessName:    business.Name,
			AnnualTurnover:  business.AnnualTurnover,
			AssetValue:      business.AssetValue,
			BusinessType:    business.BusinessType,
			TaxExemptStatus: business.TaxExemptStatus,
			IsAgricultural:  business.IsAgricultural,
			AgriStartDate:   business.AgriStartDate,
		}
		result, err = taxengine.ComputeCIT(in, snap)
	default:
		in := taxengine.PITInput{
			GrossIncome:         totalIncome,
			LandlordName:        req.LandlordName,
			LandlordAddress:     req.LandlordAddress,
			LandlordTIN:         req.LandlordTIN,
			PensionProviderName: req.PensionProviderName,
			HealthProviderName:  req.HealthProviderName,
		}
		if in.RentPaid, err = parseAmount("rent_paid", req.RentPaid, false); err != nil {
			return TaxReturnResponse{}, err
		}
		if in.PensionContribution, err = parseAmount("pension_contribution", req.PensionContribution, false); err != nil {
			return TaxReturnResponse{}, err
		}
		if in.HealthInsurance, err = parseAmount("health_insurance", req.HealthInsurance, false); err != nil {
			return TaxReturnResponse{}, err
		}
		result, err = taxengine.ComputePIT(in, snap)
	}
	if err != nil {
		return TaxReturnResponse{}, err
	}

	docs, err := s.documentRepo.ListByUser(ctx, user, req.TaxYear)
	if err != nil {
		return TaxReturnResponse{}, fmt.Errorf("failed to fetch documents: %w", err)
	}
	docStatus := validateDocumentation(req.TaxType, result, snap, categorizeDocuments(docs))

	breakdown, _ := json.Marshal(result.Breakdown)
	missing, _ := json.Marshal(docStatus.MissingDocuments)
	validationErrs, _ := json.Marshal(docStatus.ValidationErrors)
	supportingDocs, _ := json.Marshal(documentURLsByType(docs))

	ret := existing
	if getErr != nil {
		ret = &model.TaxReturn{
			UserID:  user,
			TaxYear: req.TaxYear,
			TaxType: req.TaxType,
			Status:  model.ReturnStatusDraft,
		}
	}
	ret.BusinessID = businessUUID
	ret.TotalIncome = result.GrossIncome
	ret.TotalDeductions = result.Deductions
	ret.TotalReliefs = result.Reliefs.Total()
	ret.TaxableIncome = result.TaxableIncome
	ret.TaxLiability = result.TaxLiability
	ret.TaxPaid = taxPaid
	ret.TaxDue = result.TaxLiability.Sub(taxPaid)
	ret.SupportingDocuments = string(supportingDocs)
	ret.CalculationBreakdown = string(breakdown)
	ret.DocumentationComplete = docStatus.Complete
	ret.MissingDocuments = string(missing)
	ret.ValidationErrors = string(validationErrs)
	if req.Notes != "" {
		ret.Notes = req.Notes
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var opErr error
		if getErr != nil {
			opErr = s.returnRepo.Create(txCtx, ret)
		} else {
			opErr = s.returnRepo.Update(txCtx, ret)
		}
		if opErr != nil {
			return fmt.Errorf("failed to save tax return: %w", opErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"tax_year":      req.TaxYear,
			"tax_type":      req.TaxType,
			"total_income":  ret.TotalIncome.StringFixed(2),
			"tax_liability": ret.TaxLiability.StringFixed(2),
		})
		audit := &model.AuditLog{
			UserID:     &user,
			Action:     model.ActionGenerateReturn,
			EntityID:   ret.ID.String(),
			EntityName: req.TaxType,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return TaxReturnResponse{}, err
	}

	return toTaxReturnResponse(*ret), nil
}

func (s *taxReturnService) GetReturn(ctx context.Context, id string) (TaxReturnResponse, error) {
	retID, err := uuid.Parse(id)
	if err != nil {
		return TaxReturnResponse{}, fmt.Errorf("invalid return id: %w", err)
	}
	ret, err := s.returnRepo.GetByID(ctx, retID)
	if err != nil {
		return TaxReturnResponse{}, apperr.NotFound("tax return")
	}
	return toTaxReturnResponse(*ret), nil
}

func (s *taxReturnService) ListReturns(ctx context.Context, userID string) ([]TaxReturnResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	rets, err := s.returnRepo.ListByUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tax returns: %w", err)
	}
	result := make([]TaxReturnResponse, 0, len(rets))
	for _, r := range rets {
		result = append(result, toTaxReturnResponse(r))
	}
	return result, nil
}

func (s *taxReturnService) ListAllReturns(ctx context.Context, status string, page, limit int) ([]TaxReturnResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	rets, total, err := s.returnRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tax returns: %w", err)
	}
	result := make([]TaxReturnResponse, 0, len(rets))
	for _, r := range rets {
		result = append(result, toTaxReturnResponse(r))
	}
	return result, total, nil
}

func (s *taxReturnService) Update(ctx context.Context, userID, id string, req UpdateReturnRequest) (TaxReturnResponse, error) {
	retID, err := uuid.Parse(id)
	if err != nil {
		return TaxReturnResponse{}, fmt.Errorf("invalid return id: %w", err)
	}
	ret, err := s.returnRepo.GetByID(ctx, retID)
	if err != nil {
		return TaxReturnResponse{}, apperr.NotFound("tax return")
	}

	// accepted/rejected are post-filing outcomes recorded by reviewers
	if ret.Status == model.ReturnStatusFiled &&
		req.Status != model.ReturnStatusAccepted && req.Status != model.ReturnStatusRejected {
		return TaxReturnResponse{}, apperr.Conflict("a filed return cannot be modified")
	}
	// The filing is frozen: recording the regulator outcome may only carry
	// the status and a rejection reason, never figure or note edits.
	if ret.Submitted && (req.TaxPaid != nil || req.Notes != "") {
		return TaxReturnResponse{}, apperr.Conflict("only the status and rejection reason can change after filing")
	}

	if req.Status != "" {
		if !validReturnTransition(ret.Status, req.Status) {
			return TaxReturnResponse{}, apperr.Conflict("cannot move return from %s to %s", ret.Status, req.Status)
		}
		ret.Status = req.Status
	}
	if req.TaxPaid != nil {
		taxPaid, parseErr := decimal.NewFromString(*req.TaxPaid)
		if parseErr != nil {
			return TaxReturnResponse{}, fmt.Errorf("invalid tax_paid: %w", parseErr)
		}
		ret.TaxPaid = taxPaid
		ret.TaxDue = ret.TaxLiability.Sub(taxPaid)
	}
	if req.Notes != "" {
		ret.Notes = req.Notes
	}
	if req.RejectionReason != "" {
		ret.RejectionReason = req.RejectionReason
	}

	// Revalidate documentation against the current document set while the
	// return is still mutable. Running it again on an unchanged set produces
	// the same answer.
	if ret.Status == model.ReturnStatusDraft || ret.Status == model.ReturnStatusPendingReview || ret.Status == model.ReturnStatusReadyToFile {
		docs, docErr := s.documentRepo.ListByUser(ctx, ret.UserID, ret.TaxYear)
		if docErr != nil {
			return TaxReturnResponse{}, fmt.Errorf("failed to fetch documents: %w", docErr)
		}
		snap, snapErr := s.configService.Snapshot(ctx, ret.TaxYear)
		if snapErr != nil {
			return TaxReturnResponse{}, snapErr
		}
		docStatus := revalidateStoredReturn(ret, snap, categorizeDocuments(docs))
		missing, _ := json.Marshal(docStatus.MissingDocuments)
		validationErrs, _ := json.Marshal(docStatus.ValidationErrors)
		ret.DocumentationComplete = docStatus.Complete
		ret.MissingDocuments = string(missing)
		ret.ValidationErrors = string(validationErrs)
	}

	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.returnRepo.Update(txCtx, ret); updateErr != nil {
			return fmt.Errorf("failed to update tax return: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"status":   ret.Status,
			"tax_paid": ret.TaxPaid.StringFixed(2),
		})
		audit := &model.AuditLog{
			UserID:     userUUID,
			Action:     model.ActionUpdateReturn,
			EntityID:   ret.ID.String(),
			EntityName: ret.TaxType,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return TaxReturnResponse{}, err
	}

	return toTaxReturnResponse(*ret), nil
}

func (s *taxReturnService) Submit(ctx context.Context, userID, id string) (TaxReturnResponse, error) {
	retID, err := uuid.Parse(id)
	if err != nil {
		return TaxReturnResponse{}, fmt.Errorf("invalid return id: %w", err)
	}
	ret, err := s.returnRepo.GetByID(ctx, retID)
	if err != nil {
		return TaxReturnResponse{}, apperr.NotFound("tax return")
	}

	if ret.Submitted || ret.Status == model.ReturnStatusFiled {
		return TaxReturnResponse{}, apperr.Conflict("return has already been filed")
	}
	if !ret.DocumentationComplete {
		return TaxReturnResponse{}, apperr.Conflict("cannot file: documentation is incomplete")
	}
	var pending []string
	if ret.ValidationErrors != "" {
		_ = json.Unmarshal([]byte(ret.ValidationErrors), &pending)
	}
	if len(pending) > 0 {
		return TaxReturnResponse{}, apperr.Conflict("cannot file: unresolved validation errors")
	}

	now := time.Now()
	ret.Status = model.ReturnStatusFiled
	ret.Submitted = true
	ret.SubmissionDate = &now
	ret.FIRSReferenceNumber = firsReference(ret.TaxType, ret.TaxYear)

	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.returnRepo.Update(txCtx, ret); updateErr != nil {
			return fmt.Errorf("failed to file tax return: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"firs_reference": ret.FIRSReferenceNumber,
			"tax_liability":  ret.TaxLiability.StringFixed(2),
		})
		audit := &model.AuditLog{
			UserID:     userUUID,
			Action:     model.ActionSubmitReturn,
			EntityID:   ret.ID.String(),
			EntityName: ret.TaxType,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return TaxReturnResponse{}, err
	}

	if s.notifier != nil {
		s.notifier.NotifyReturnSubmitted(ret.ID.String(), ret.UserID.String(), ret.TaxYear, ret.TaxType, ret.FIRSReferenceNumber)
	}

	return toTaxReturnResponse(*ret), nil
}

func (s *taxReturnService) Delete(ctx context.Context, userID, id string) error {
	retID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid return id: %w", err)
	}
	ret, err := s.returnRepo.GetByID(ctx, retID)
	if err != nil {
		return apperr.NotFound("tax return")
	}
	if ret.Submitted || ret.Status == model.ReturnStatusFiled {
		return apperr.Conflict("a filed return cannot be deleted")
	}

	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.returnRepo.Delete(txCtx, ret.ID); deleteErr != nil {
			return fmt.Errorf("failed to delete tax return: %w", deleteErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"tax_year": ret.TaxYear,
			"tax_type": ret.TaxType,
		})
		audit := &model.AuditLog{
			UserID:     userUUID,
			Action:     model.ActionDeleteReturn,
			EntityID:   ret.ID.String(),
			EntityName: ret.TaxType,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
}

// --- Documentation validation ---

// categorizeDocuments groups a user's documents by type, ignoring rejected
// uploads.
func categorizeDocuments(docs []model.Document) map[string][]model.Document {
	byType := make(map[string][]model.Document)
	for _, d := range docs {
		if d.Status == model.DocStatusRejected {
			continue
		}
		byType[d.DocumentType] = append(byType[d.DocumentType], d)
	}
	return byType
}

func documentURLsByType(docs []model.Document) map[string][]string {
	byType := make(map[string][]string)
	for _, d := range docs {
		if d.Status == model.DocStatusRejected {
			continue
		}
		byType[d.DocumentType] = append(byType[d.DocumentType], d.FileURL)
	}
	return byType
}

// validateDocumentation decides which evidence a return still needs. Pure
// over its inputs: the same return and document set always yields the same
// status.
func validateDocumentation(taxType string, result taxengine.Result, snap taxengine.Snapshot, byType map[string][]model.Document) DocumentationStatus {
	status := DocumentationStatus{
		MissingDocuments: []string{},
		ValidationErrors: []string{},
	}

	hasAny := func(types ...string) bool {
		for _, t := range types {
			if len(byType[t]) > 0 {
				return true
			}
		}
		return false
	}

	if taxType == taxengine.TaxTypeCIT {
		if !hasAny(model.DocIncomeStatement, model.DocBankStatement) {
			status.MissingDocuments = append(status.MissingDocuments, model.DocIncomeStatement)
		}
		if !hasAny(model.DocCACRegistration) {
			status.MissingDocuments = append(status.MissingDocuments, model.DocCACRegistration)
		}
	} else {
		if result.GrossIncome.GreaterThan(snap.TaxFreeThreshold) &&
			!hasAny(model.DocIncomeStatement, model.DocPayslip, model.DocBankStatement) {
			status.MissingDocuments = append(status.MissingDocuments, model.DocIncomeStatement)
		}
		if result.Reliefs.RentRelief.GreaterThan(decimal.Zero) &&
			!hasAny(model.DocRentReceipt, model.DocLeaseAgreement) {
			status.MissingDocuments = append(status.MissingDocuments, model.DocRentReceipt)
		}
		if result.Reliefs.PensionContribution.GreaterThan(decimal.Zero) &&
			!hasAny(model.DocPensionCertificate) {
			status.MissingDocuments = append(status.MissingDocuments, model.DocPensionCertificate)
		}
		if result.Reliefs.HealthInsurance.GreaterThan(decimal.Zero) &&
			!hasAny(model.DocHealthPolicy) {
			status.MissingDocuments = append(status.MissingDocuments, model.DocHealthPolicy)
		}
	}

	for _, missing := range status.MissingDocuments {
		status.ValidationErrors = append(status.ValidationErrors,
			fmt.Sprintf("missing required document: %s", missing))
	}
	status.Complete = len(status.MissingDocuments) == 0
	return status
}

// revalidateStoredReturn rebuilds a documentation status from a persisted
// return instead of a fresh engine result. The relief components are read
// back out of the stored breakdown so relief-evidence requirements survive
// every later update, not just generation.
func revalidateStoredReturn(ret *model.TaxReturn, snap taxengine.Snapshot, byType map[string][]model.Document) DocumentationStatus {
	result := taxengine.Result{
		GrossIncome: ret.TotalIncome,
	}
	if ret.CalculationBreakdown != "" {
		var breakdown taxengine.Breakdown
		if err := json.Unmarshal([]byte(ret.CalculationBreakdown), &breakdown); err == nil && breakdown.Reliefs != nil {
			result.Reliefs = *breakdown.Reliefs
		}
	}
	return validateDocumentation(ret.TaxType, result, snap, byType)
}

func validReturnTransition(from, to string) bool {
	switch from {
	case model.ReturnStatusDraft:
		return to == model.ReturnStatusPendingReview || to == model.ReturnStatusReadyToFile
	case model.ReturnStatusPendingReview:
		return to == model.ReturnStatusDraft || to == model.ReturnStatusReadyToFile
	case model.ReturnStatusReadyToFile:
		return to == model.ReturnStatusDraft || to == model.ReturnStatusPendingReview
	case model.ReturnStatusFiled:
		return to == model.ReturnStatusAccepted || to == model.ReturnStatusRejected
	}
	return false
}

// firsReference builds the regulator filing reference: FIRS-<TYPE>-<year>-<random>.
func firsReference(taxType string, taxYear int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	raw := make([]byte, 8)
	_, _ = rand.Read(raw)
	suffix := make([]byte, len(raw))
	for i, b := range raw {
		suffix[i] = alphabet[int(b)%len(alphabet)]
	}
	return fmt.Sprintf("FIRS-%s-%d-%s", strings.ToUpper(taxType), taxYear, suffix)
}

// --- Helpers ---

func toTaxReturnResponse(r model.TaxReturn) TaxReturnResponse {
	doc := DocumentationStatus{Complete: r.DocumentationComplete, MissingDocuments: []string{}, ValidationErrors: []string{}}
	if r.MissingDocuments != "" {
		_ = json.Unmarshal([]byte(r.MissingDocuments), &doc.MissingDocuments)
	}
	if r.ValidationErrors != "" {
		_ = json.Unmarshal([]byte(r.ValidationErrors), &doc.ValidationErrors)
	}

	resp := TaxReturnResponse{
		ID:                  r.ID.String(),
		UserID:              r.UserID.String(),
		TaxYear:             r.TaxYear,
		TaxType:             r.TaxType,
		TotalIncome:         r.TotalIncome.StringFixed(2),
		TotalDeductions:     r.TotalDeductions.StringFixed(2),
		TotalReliefs:        r.TotalReliefs.StringFixed(2),
		TaxableIncome:       r.TaxableIncome.StringFixed(2),
		TaxLiability:        r.TaxLiability.StringFixed(2),
		TaxPaid:             r.TaxPaid.StringFixed(2),
		TaxDue:              r.TaxDue.StringFixed(2),
		Status:              r.Status,
		Documentation:       doc,
		Submitted:           r.Submitted,
		FIRSReferenceNumber: r.FIRSReferenceNumber,
		Notes:               r.Notes,
		RejectionReason:     r.RejectionReason,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           r.UpdatedAt.Format(time.RFC3339),
	}
	if r.BusinessID != nil {
		id := r.BusinessID.String()
		resp.BusinessID = &id
	}
	if r.SubmissionDate != nil {
		d := r.SubmissionDate.Format(time.RFC3339)
		resp.SubmissionDate = &d
	}
	return resp
}
