package persistence

import (
	"context"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements accounting.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByOriginalID finds the invoice, with its lines, migrated from the given legacy invoice
func (r *GormInvoiceRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Invoice, error) {
	model, err := findByOriginalID[models.InvoiceModel](ctx, r.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}), originalID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a draft invoice and its lines, if any, in one transaction
func (r *GormInvoiceRepository) Create(ctx context.Context, payload *accounting.InvoicePayload) (*accounting.Invoice, error) {
	model := models.InvoiceModelFromPayload(payload)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return nil, translateCreateError(err)
	}
	return model.ToDomain(), nil
}

var _ accounting.InvoiceRepository = (*GormInvoiceRepository)(nil)
