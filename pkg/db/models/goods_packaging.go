package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoodsPackaging is a packaging variant of a goods item (crate, carton,
// bottle size). Together with the goods id it forms the inventory lookup key.
type GoodsPackaging struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GoodsID         uuid.UUID       `gorm:"column:goods_id;type:uuid;not null"`
	Name            string          `gorm:"column:name;not null"`
	VolumeLiters    decimal.Decimal `gorm:"column:volume_liters;type:numeric(10,3);not null"`
	UnitsPerPackage int             `gorm:"column:units_per_package;not null;default:1"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
