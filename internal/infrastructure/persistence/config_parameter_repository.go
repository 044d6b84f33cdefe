package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/morrillo/blo-migration/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConfigParameterRepository reads and writes key/value configuration parameters.
// It satisfies config.ParameterStore.
type GormConfigParameterRepository struct {
	db *gorm.DB
}

// NewGormConfigParameterRepository creates a new GormConfigParameterRepository
func NewGormConfigParameterRepository(db *gorm.DB) *GormConfigParameterRepository {
	return &GormConfigParameterRepository{db: db}
}

// Get returns the value stored under key. A blank value counts as absent.
func (r *GormConfigParameterRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var model models.ConfigParameterModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if strings.TrimSpace(model.Value) == "" {
		return "", false, nil
	}
	return model.Value, true, nil
}

// Set stores value under key, replacing any previous value
func (r *GormConfigParameterRepository) Set(ctx context.Context, key, value string) error {
	model := models.ConfigParameterModel{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
}

// List returns all parameters keyed by name
func (r *GormConfigParameterRepository) List(ctx context.Context) (map[string]string, error) {
	var rows []models.ConfigParameterModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	params := make(map[string]string, len(rows))
	for _, row := range rows {
		params[row.Key] = row.Value
	}
	return params, nil
}
