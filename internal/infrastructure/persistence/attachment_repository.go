package persistence

import (
	"context"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAttachmentRepository implements accounting.AttachmentRepository using GORM
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// FindByOriginalID finds the attachment copied from the given legacy attachment
func (r *GormAttachmentRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Attachment, error) {
	model, err := findByOriginalID[models.AttachmentModel](ctx, r.db, originalID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByResource lists attachments bound to one record, oldest first
func (r *GormAttachmentRepository) FindByResource(ctx context.Context, resModel string, resID int64) ([]accounting.Attachment, error) {
	var rows []models.AttachmentModel
	if err := r.db.WithContext(ctx).
		Where("res_model = ? AND res_id = ?", resModel, resID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	attachments := make([]accounting.Attachment, len(rows))
	for i := range rows {
		attachments[i] = *rows[i].ToDomain()
	}
	return attachments, nil
}

// Create inserts an attachment record and sets its ID
func (r *GormAttachmentRepository) Create(ctx context.Context, attachment *accounting.Attachment) error {
	var model models.AttachmentModel
	model.FromDomain(attachment)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateCreateError(err)
	}
	attachment.ID = model.ID
	return nil
}

var _ accounting.AttachmentRepository = (*GormAttachmentRepository)(nil)
