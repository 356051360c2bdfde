package models

import (
	"time"

	"github.com/google/uuid"
)

// UnitMeasure is the unit a goods item is counted or poured in.
type UnitMeasure struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	ShortName string    `gorm:"column:short_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
