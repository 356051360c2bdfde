package models

import (
	"time"

	"github.com/google/uuid"
)

// Area is a physical zone of the warehouse where batches are stored.
type Area struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string     `gorm:"column:code;not null;uniqueIndex"`
	Name               string     `gorm:"column:name;not null"`
	StorageConditionID *uuid.UUID `gorm:"column:storage_condition_id;type:uuid"`
	CapacityPackages   int        `gorm:"column:capacity_packages;not null;default:0"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
