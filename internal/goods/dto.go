package goods

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkdist/warehouse-backend/pkg/db/models"
)

// GoodsDTO is the transport shape for a goods item with its packagings.
type GoodsDTO struct {
	ID          uuid.UUID      `json:"id"`
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	UnitMeasure *UnitMeasure   `json:"unit_measure,omitempty"`
	Supplier    *Supplier      `json:"supplier,omitempty"`
	Packagings  []PackagingDTO `json:"packagings"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// UnitMeasure is the embedded unit summary on goods reads.
type UnitMeasure struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"short_name"`
}

// Supplier is the embedded supplier summary on goods reads.
type Supplier struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// PackagingDTO is a packaging variant of a goods item.
type PackagingDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	VolumeLiters    decimal.Decimal `json:"volume_liters"`
	UnitsPerPackage int             `json:"units_per_package"`
}

// GoodsListResult bundles a page of goods with the total row count.
type GoodsListResult struct {
	Items      []GoodsDTO `json:"items"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

func FromModel(m *models.Goods) *GoodsDTO {
	if m == nil {
		return nil
	}
	dto := &GoodsDTO{
		ID:         m.ID,
		Code:       m.Code,
		Name:       m.Name,
		Packagings: make([]PackagingDTO, 0, len(m.Packagings)),
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.UnitMeasure != nil {
		dto.UnitMeasure = &UnitMeasure{
			ID:        m.UnitMeasure.ID,
			Name:      m.UnitMeasure.Name,
			ShortName: m.UnitMeasure.ShortName,
		}
	}
	if m.Supplier != nil {
		dto.Supplier = &Supplier{
			ID:   m.Supplier.ID,
			Code: m.Supplier.Code,
			Name: m.Supplier.Name,
		}
	}
	for _, p := range m.Packagings {
		dto.Packagings = append(dto.Packagings, PackagingDTO{
			ID:              p.ID,
			Name:            p.Name,
			VolumeLiters:    p.VolumeLiters,
			UnitsPerPackage: p.UnitsPerPackage,
		})
	}
	return dto
}

func fromModels(rows []models.Goods) []GoodsDTO {
	out := make([]GoodsDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
