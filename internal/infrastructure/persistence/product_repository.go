package persistence

import (
	"context"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements accounting.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByOriginalID finds the product migrated from the given legacy product
func (r *GormProductRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Product, error) {
	model, err := findByOriginalID[models.ProductModel](ctx, r.db, originalID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a product and sets its ID
func (r *GormProductRepository) Create(ctx context.Context, product *accounting.Product) error {
	var model models.ProductModel
	model.FromDomain(product)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateCreateError(err)
	}
	product.ID = model.ID
	return nil
}

var _ accounting.ProductRepository = (*GormProductRepository)(nil)
