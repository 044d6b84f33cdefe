package persistence

import (
	"context"
	"errors"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"gorm.io/gorm"
)

// findByOriginalID loads the single row of M whose original_id matches.
// Two rows are fetched so a duplicated correlation is reported instead of hidden.
func findByOriginalID[M any](ctx context.Context, db *gorm.DB, originalID int64) (*M, error) {
	var rows []M
	if err := db.WithContext(ctx).
		Where("original_id = ?", originalID).
		Order("id ASC").
		Limit(2).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	switch len(rows) {
	case 0:
		return nil, accounting.ErrNotFound
	case 1:
		return &rows[0], nil
	default:
		return nil, accounting.ErrAmbiguousOriginalID
	}
}

// translateCreateError maps a unique violation to ErrDuplicateOriginalID,
// original_id being the only unique column of the migrated tables.
func translateCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return accounting.ErrDuplicateOriginalID
	}
	return err
}
