package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// StorageCondition captures the temperature band and handling codes a batch
// must be kept under (chilled, frozen, ambient).
type StorageCondition struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;not null;uniqueIndex"`
	MinTempC      decimal.Decimal `gorm:"column:min_temp_c;type:numeric(5,2);not null"`
	MaxTempC      decimal.Decimal `gorm:"column:max_temp_c;type:numeric(5,2);not null"`
	HandlingCodes pq.StringArray  `gorm:"column:handling_codes;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
