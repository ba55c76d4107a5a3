package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplianceRepository interface {
	Create(ctx context.Context, task *model.ComplianceTask) error
	Update(ctx context.Context, task *model.ComplianceTask) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ComplianceTask, error)
	ListByUser(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID) ([]model.ComplianceTask, error)
	ListDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.ComplianceTask, error)
	ListOverdue(ctx context.Context, userID uuid.UUID, before time.Time) ([]model.ComplianceTask, error)
}

type complianceRepository struct {
	db *gorm.DB
}

func NewComplianceRepository(db *gorm.DB) ComplianceRepository {
	return &complianceRepository{db: db}
}

func (r *complianceRepository) Create(ctx context.Context, task *model.ComplianceTask) error {
	return GetDB(ctx, r.db).Create(task).Error
}

func (r *complianceRepository) Update(ctx context.Context, task *model.ComplianceTask) error {
	return GetDB(ctx, r.db).Save(task).Error
}

func (r *complianceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ComplianceTask{}).Error
}

func (r *complianceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ComplianceTask, error) {
	var task model.ComplianceTask
	if err := GetDB(ctx, r.db).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *complianceRepository) ListByUser(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID) ([]model.ComplianceTask, error) {
	var tasks []model.ComplianceTask
	db := GetDB(ctx, r.db).Where("user_id = ?", userID)
	if businessID != nil {
		db = db.Where("business_id = ?", *businessID)
	}
	if err := db.Order("due_date asc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListDueBetween returns unfinished tasks falling due inside [from, to].
func (r *complianceRepository) ListDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.ComplianceTask, error) {
	var tasks []model.ComplianceTask
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND due_date >= ? AND due_date <= ? AND status <> ?",
			userID, from, to, model.ComplianceStatusCompleted).
		Order("due_date asc").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListOverdue returns unfinished tasks whose due date has already passed.
func (r *complianceRepository) ListOverdue(ctx context.Context, userID uuid.UUID, before time.Time) ([]model.ComplianceTask, error) {
	var tasks []model.ComplianceTask
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND due_date < ? AND status <> ?",
			userID, before, model.ComplianceStatusCompleted).
		Order("due_date asc").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
