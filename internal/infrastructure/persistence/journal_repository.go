package persistence

import (
	"context"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormJournalRepository implements accounting.JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// FindByOriginalID finds the journal migrated from the given legacy journal
func (r *GormJournalRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Journal, error) {
	model, err := findByOriginalID[models.JournalModel](ctx, r.db, originalID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a journal and sets its ID
func (r *GormJournalRepository) Create(ctx context.Context, journal *accounting.Journal) error {
	var model models.JournalModel
	model.FromDomain(journal)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateCreateError(err)
	}
	journal.ID = model.ID
	return nil
}

var _ accounting.JournalRepository = (*GormJournalRepository)(nil)
