package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationRepository interface {
	Create(ctx context.Context, donation *model.CorporateDonation) error
	Update(ctx context.Context, donation *model.CorporateDonation) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CorporateDonation, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, taxYear int) ([]model.CorporateDonation, error)
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *model.CorporateDonation) error {
	return GetDB(ctx, r.db).Create(donation).Error
}

func (r *donationRepository) Update(ctx context.Context, donation *model.CorporateDonation) error {
	return GetDB(ctx, r.db).Save(donation).Error
}

func (r *donationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CorporateDonation{}).Error
}

func (r *donationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CorporateDonation, error) {
	var donation model.CorporateDonation
	if err := GetDB(ctx, r.db).First(&donation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, taxYear int) ([]model.CorporateDonation, error) {
	var donations []model.CorporateDonation
	db := GetDB(ctx, r.db).Where("business_id = ?", businessID)
	if taxYear > 0 {
		db = db.Where("tax_year = ?", taxYear)
	}
	if err := db.Order("created_at desc").Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}
