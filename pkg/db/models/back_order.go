package models

import (
	"time"

	"github.com/google/uuid"
)

// BackOrder records a replenishment shortfall for a retailer: a goods +
// packaging combination and the number of packages still owed. The
// (retailer_id, goods_id, packaging_id) tuple is unique; creating for an
// existing tuple adds to the open quantity instead of inserting.
type BackOrder struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code         string          `gorm:"column:code;not null;uniqueIndex"`
	RetailerID   uuid.UUID       `gorm:"column:retailer_id;type:uuid;not null;index"`
	GoodsID      uuid.UUID       `gorm:"column:goods_id;type:uuid;not null;index"`
	PackagingID  uuid.UUID       `gorm:"column:packaging_id;type:uuid;not null"`
	RequestedQty int             `gorm:"column:requested_qty;not null"`
	CreatedBy    uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	Retailer     *Retailer       `gorm:"foreignKey:RetailerID"`
	Goods        *Goods          `gorm:"foreignKey:GoodsID"`
	Packaging    *GoodsPackaging `gorm:"foreignKey:PackagingID"`
	Creator      *User           `gorm:"foreignKey:CreatedBy"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
