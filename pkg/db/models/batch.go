package models

import (
	"time"

	"github.com/google/uuid"
)

// Batch is a received lot of packaged goods. Availability for a
// (goods, packaging) pair is the sum of package_qty over its live batches.
type Batch struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string          `gorm:"column:code;not null;uniqueIndex"`
	GoodsID            uuid.UUID       `gorm:"column:goods_id;type:uuid;not null;index"`
	PackagingID        uuid.UUID       `gorm:"column:packaging_id;type:uuid;not null;index"`
	SupplierID         uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null"`
	AreaID             uuid.UUID       `gorm:"column:area_id;type:uuid;not null"`
	StorageConditionID *uuid.UUID      `gorm:"column:storage_condition_id;type:uuid"`
	PackageQty         int             `gorm:"column:package_qty;not null;default:0"`
	ExpiresAt          time.Time       `gorm:"column:expires_at;not null"`
	ReceivedAt         time.Time       `gorm:"column:received_at;not null"`
	Goods              *Goods          `gorm:"foreignKey:GoodsID"`
	Packaging          *GoodsPackaging `gorm:"foreignKey:PackagingID"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
