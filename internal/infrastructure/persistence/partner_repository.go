package persistence

import (
	"context"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPartnerRepository implements accounting.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByOriginalID finds the partner migrated from the given legacy partner
func (r *GormPartnerRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Partner, error) {
	model, err := findByOriginalID[models.PartnerModel](ctx, r.db, originalID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a partner and sets its ID
func (r *GormPartnerRepository) Create(ctx context.Context, partner *accounting.Partner) error {
	var model models.PartnerModel
	model.FromDomain(partner)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateCreateError(err)
	}
	partner.ID = model.ID
	return nil
}

var _ accounting.PartnerRepository = (*GormPartnerRepository)(nil)
