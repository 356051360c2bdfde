package retailers

import (
	"time"

	"github.com/google/uuid"

	"github.com/milkdist/warehouse-backend/pkg/db/models"
)

// RetailerDTO is the transport shape for a retail outlet.
type RetailerDTO struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RetailerListResult bundles a page of retailers with the total row count.
type RetailerListResult struct {
	Items      []RetailerDTO `json:"items"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

func FromModel(m *models.Retailer) *RetailerDTO {
	if m == nil {
		return nil
	}
	return &RetailerDTO{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		Phone:     m.Phone,
		Email:     m.Email,
		Address:   m.Address,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromModels(rows []models.Retailer) []RetailerDTO {
	out := make([]RetailerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
