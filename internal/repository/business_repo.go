package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *model.Business) error
	Update(ctx context.Context, business *model.Business) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Business, error)
	List(ctx context.Context, page, limit int) ([]model.Business, int64, error)
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, business *model.Business) error {
	return GetDB(ctx, r.db).Create(business).Error
}

func (r *businessRepository) Update(ctx context.Context, business *model.Business) error {
	return GetDB(ctx, r.db).Save(business).Error
}

func (r *businessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Business{}).Error
}

func (r *businessRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	var business model.Business
	if err := GetDB(ctx, r.db).First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Business, error) {
	var businesses []model.Business
	if err := GetDB(ctx, r.db).Where("owner_id = ?", ownerID).Order("created_at desc").Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) List(ctx context.Context, page, limit int) ([]model.Business, int64, error) {
	var businesses []model.Business
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Business{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&businesses).Error; err != nil {
		return nil, 0, err
	}

	return businesses, total, nil
}
