package models

import "time"

// ConfigParameterModel stores one key/value configuration parameter.
type ConfigParameterModel struct {
	Key       string    `gorm:"primaryKey;type:varchar(128)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConfigParameterModel) TableName() string {
	return "config_parameters"
}
