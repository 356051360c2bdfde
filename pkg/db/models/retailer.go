package models

import (
	"time"

	"github.com/google/uuid"
)

// Retailer is a customer outlet that places back orders.
type Retailer struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string     `gorm:"column:code;not null;uniqueIndex"`
	Name      string     `gorm:"column:name;not null"`
	Phone     *string    `gorm:"column:phone"`
	Email     *string    `gorm:"column:email"`
	Address   *string    `gorm:"column:address"`
	IsActive  bool       `gorm:"column:is_active;not null"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
