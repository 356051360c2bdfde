package models

import (
	"time"

	"github.com/google/uuid"
)

// Goods is a dairy product carried by the warehouse.
type Goods struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string           `gorm:"column:code;not null;uniqueIndex"`
	Name          string           `gorm:"column:name;not null"`
	UnitMeasureID uuid.UUID        `gorm:"column:unit_measure_id;type:uuid;not null"`
	SupplierID    uuid.UUID        `gorm:"column:supplier_id;type:uuid;not null"`
	IsActive      bool             `gorm:"column:is_active;not null"`
	UnitMeasure   *UnitMeasure     `gorm:"foreignKey:UnitMeasureID"`
	Supplier      *Supplier        `gorm:"foreignKey:SupplierID"`
	Packagings    []GoodsPackaging `gorm:"foreignKey:GoodsID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
