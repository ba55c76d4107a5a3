package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string  `json:"id"`
	UserID     *string `json:"user_id"`
	Action     string  `json:"action"`
	EntityID   string  `json:"entity_id"`
	EntityName string  `json:"entity_name,omitempty"`
	Details    string  `json:"details"`
	CreatedAt  string  `json:"created_at"`
}

type AuditService interface {
	ListLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error)
	ListUserLogs(ctx context.Context, userID string, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	entries, total, err := s.auditRepo.List(ctx, action, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return mapAuditEntries(entries), total, nil
}

func (s *auditService) ListUserLogs(ctx context.Context, userID string, page, limit int) ([]AuditLogResponse, int64, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	entries, total, err := s.auditRepo.ListByUser(ctx, user, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return mapAuditEntries(entries), total, nil
}

func mapAuditEntries(entries []model.AuditLog) []AuditLogResponse {
	result := make([]AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		resp := AuditLogResponse{
			ID:         e.ID.String(),
			Action:     e.Action,
			EntityID:   e.EntityID,
			EntityName: e.EntityName,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		}
		if e.UserID != nil {
			id := e.UserID.String()
			resp.UserID = &id
		}
		result = append(result, resp)
	}
	return result
}
