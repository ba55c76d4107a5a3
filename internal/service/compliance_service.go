package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateComplianceTaskRequest struct {
	Type        string `json:"type" binding:"required,oneof=tax_filing vat_return annual_return audit license_renewal registration other"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" binding:"required"` // YYYY-MM-DD
	BusinessID  string `json:"business_id"`
	Notes       string `json:"notes"`
	DocumentURL string `json:"document_url"`
}

type UpdateComplianceTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status" binding:"omitempty,oneof=pending in_progress completed overdue"`
	Notes       string `json:"notes"`
	DocumentURL string `json:"document_url"`
}

type ComplianceTaskResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	BusinessID    *string `json:"business_id"`
	Type          string  `json:"type"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	DueDate       string  `json:"due_date"`
	Status        string  `json:"status"`
	CompletedDate *string `json:"completed_date"`
	Notes         string  `json:"notes"`
	DocumentURL   string  `json:"document_url"`
	CreatedAt     string  `json:"created_at"`
}

// --- Interface ---

// ComplianceService tracks dated regulatory obligations. Listing moves any
// unfinished task past its due date to overdue before returning it.
type ComplianceService interface {
	CreateTask(ctx context.Context, userID string, req CreateComplianceTaskRequest) (ComplianceTaskResponse, error)
	GetTask(ctx context.Context, userID, id string) (ComplianceTaskResponse, error)
	ListTasks(ctx context.Context, userID, businessID string) ([]ComplianceTaskResponse, error)
	ListUpcoming(ctx context.Context, userID string, days int) ([]ComplianceTaskResponse, error)
	ListOverdue(ctx context.Context, userID string) ([]ComplianceTaskResponse, error)
	UpdateTask(ctx context.Context, userID, id string, req UpdateComplianceTaskRequest) (ComplianceTaskResponse, error)
	CompleteTask(ctx context.Context, userID, id string) (ComplianceTaskResponse, error)
	DeleteTask(ctx context.Context, userID, id string) error
}

type complianceService struct {
	complianceRepo repository.ComplianceRepository
	businessRepo   repository.BusinessRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
}

func NewComplianceService(
	complianceRepo repository.ComplianceRepository,
	businessRepo repository.BusinessRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ComplianceService {
	return &complianceService{
		complianceRepo: complianceRepo,
		businessRepo:   businessRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

// --- Implementation ---

func (s *complianceService) CreateTask(ctx context.Context, userID string, req CreateComplianceTaskRequest) (ComplianceTaskResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return ComplianceTaskResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return ComplianceTaskResponse{}, fmt.Errorf("invalid due_date: %w", err)
	}

	var businessUUID *uuid.UUID
	if req.BusinessID != "" {
		parsed, parseErr := uuid.Parse(req.BusinessID)
		if parseErr != nil {
			return ComplianceTaskResponse{}, fmt.Errorf("invalid business_id: %w", parseErr)
		}
		business, bizErr := s.businessRepo.GetByID(ctx, parsed)
		if bizErr != nil {
			return ComplianceTaskResponse{}, apperr.NotFound("business")
		}
		businessUUID = &business.ID
	}

	task := model.ComplianceTask{
		UserID:      user,
		BusinessID:  businessUUID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Status:      model.ComplianceStatusPending,
		Notes:       req.Notes,
		DocumentURL: req.DocumentURL,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.complianceRepo.Create(txCtx, &task); createErr != nil {
			return fmt.Errorf("failed to create compliance task: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"type":     req.Type,
			"due_date": req.DueDate,
		})
		audit := &model.AuditLog{
			UserID:     &user,
			Action:     model.ActionCreateComplianceTask,
			EntityID:   task.ID.String(),
			EntityName: req.Title,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return ComplianceTaskResponse{}, err
	}

	return toComplianceTaskResponse(task), nil
}

func (s *complianceService) GetTask(ctx context.Context, userID, id string) (ComplianceTaskResponse, error) {
	task, err := s.ownedTask(ctx, userID, id)
	if err != nil {
		return ComplianceTaskResponse{}, err
	}
	return toComplianceTaskResponse(*task), nil
}

// ListTasks returns the user's tasks ordered by due date, flipping any
// unfinished task past its due date to overdue on the way out.
func (s *complianceService) ListTasks(ctx context.Context, userID, businessID string) ([]ComplianceTaskResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	var businessUUID *uuid.UUID
	if businessID != "" {
		parsed, parseErr := uuid.Parse(businessID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid business id: %w", parseErr)
		}
		businessUUID = &parsed
	}

	tasks, err := s.complianceRepo.ListByUser(ctx, user, businessUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch compliance tasks: %w", err)
	}

	today := time.Now()
	result := make([]ComplianceTaskResponse, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		if task.DueDate.Before(today) &&
			task.Status != model.ComplianceStatusCompleted &&
			task.Status != model.ComplianceStatusOverdue {
			task.Status = model.ComplianceStatusOverdue
			if updateErr := s.complianceRepo.Update(ctx, task); updateErr != nil {
				return nil, fmt.Errorf("failed to mark task overdue: %w", updateErr)
			}
		}
		result = append(result, toComplianceTaskResponse(*task))
	}
	return result, nil
}

func (s *complianceService) ListUpcoming(ctx context.Context, userID string, days int) ([]ComplianceTaskResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	if days <= 0 {
		days = 30
	}

	now := time.Now()
	tasks, err := s.complianceRepo.ListDueBetween(ctx, user, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming tasks: %w", err)
	}

	result := make([]ComplianceTaskResponse, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, toComplianceTaskResponse(task))
	}
	return result, nil
}

func (s *complianceService) ListOverdue(ctx context.Context, userID string) ([]ComplianceTaskResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	tasks, err := s.complianceRepo.ListOverdue(ctx, user, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overdue tasks: %w", err)
	}

	result := make([]ComplianceTaskResponse, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, toComplianceTaskResponse(task))
	}
	return result, nil
}

func (s *complianceService) UpdateTask(ctx context.Context, userID, id string, req UpdateComplianceTaskRequest) (ComplianceTaskResponse, error) {
	task, err := s.ownedTask(ctx, userID, id)
	if err != nil {
		return ComplianceTaskResponse{}, err
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.DueDate != "" {
		dueDate, parseErr := time.Parse("2006-01-02", req.DueDate)
		if parseErr != nil {
			return ComplianceTaskResponse{}, fmt.Errorf("invalid due_date: %w", parseErr)
		}
		task.DueDate = dueDate
	}
	if req.Status != "" {
		task.Status = req.Status
		if req.Status == model.ComplianceStatusCompleted && task.CompletedDate == nil {
			now := time.Now()
			task.CompletedDate = &now
		}
	}
	if req.Notes != "" {
		task.Notes = req.Notes
	}
	if req.DocumentURL != "" {
		task.DocumentURL = req.DocumentURL
	}

	if err := s.complianceRepo.Update(ctx, task); err != nil {
		return ComplianceTaskResponse{}, fmt.Errorf("failed to update compliance task: %w", err)
	}
	return toComplianceTaskResponse(*task), nil
}

// CompleteTask marks the task done and stamps the completion date.
func (s *complianceService) CompleteTask(ctx context.Context, userID, id string) (ComplianceTaskResponse, error) {
	task, err := s.ownedTask(ctx, userID, id)
	if err != nil {
		return ComplianceTaskResponse{}, err
	}

	now := time.Now()
	task.Status = model.ComplianceStatusCompleted
	task.CompletedDate = &now

	user, _ := uuid.Parse(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.complianceRepo.Update(txCtx, task); updateErr != nil {
			return fmt.Errorf("failed to complete compliance task: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"type":     task.Type,
			"due_date": task.DueDate.Format("2006-01-02"),
		})
		audit := &model.AuditLog{
			UserID:     &user,
			Action:     model.ActionCompleteComplianceTask,
			EntityID:   task.ID.String(),
			EntityName: task.Title,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return ComplianceTaskResponse{}, err
	}
	return toComplianceTaskResponse(*task), nil
}

func (s *complianceService) DeleteTask(ctx context.Context, userID, id string) error {
	task, err := s.ownedTask(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.complianceRepo.Delete(ctx, task.ID)
}

// --- Helpers ---

// ownedTask fetches a task and hides it from anyone but its owner.
func (s *complianceService) ownedTask(ctx context.Context, userID, id string) (*model.ComplianceTask, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}
	task, err := s.complianceRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, apperr.NotFound("compliance task")
	}
	if task.UserID.String() != userID {
		return nil, apperr.NotFound("compliance task")
	}
	return task, nil
}

func toComplianceTaskResponse(t model.ComplianceTask) ComplianceTaskResponse {
	resp := ComplianceTaskResponse{
		ID:          t.ID.String(),
		UserID:      t.UserID.String(),
		Type:        t.Type,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.Format("2006-01-02"),
		Status:      t.Status,
		Notes:       t.Notes,
		DocumentURL: t.DocumentURL,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.BusinessID != nil {
		id := t.BusinessID.String()
		resp.BusinessID = &id
	}
	if t.CompletedDate != nil {
		d := t.CompletedDate.Format("2006-01-02")
		resp.CompletedDate = &d
	}
	return resp
}
