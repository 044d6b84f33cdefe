package models

import (
	"time"
)

// BaseModel provides the surrogate key and timestamps shared by target-store tables.
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// OriginalIDPtr converts a legacy identifier to its nullable column value.
// Zero means the record did not come from the legacy system.
func OriginalIDPtr(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// OriginalIDValue is the inverse of OriginalIDPtr.
func OriginalIDValue(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
