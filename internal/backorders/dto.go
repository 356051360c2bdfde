package backorders

import (
	"time"

	"github.com/google/uuid"

	"github.com/milkdist/warehouse-backend/pkg/enums"
)

// BackOrderDTO is the transport shape for a back order with joined names
// and the request-time availability label.
type BackOrderDTO struct {
	ID              uuid.UUID                `json:"id"`
	Code            string                   `json:"code"`
	RetailerID      uuid.UUID                `json:"retailer_id"`
	RetailerName    string                   `json:"retailer_name"`
	GoodsID         uuid.UUID                `json:"goods_id"`
	GoodsName       string                   `json:"goods_name"`
	PackagingID     uuid.UUID                `json:"packaging_id"`
	PackagingName   string                   `json:"packaging_name"`
	UnitMeasureName string                   `json:"unit_measure_name"`
	RequestedQty    int                      `json:"requested_qty"`
	AvailableQty    int64                    `json:"available_qty"`
	Status          enums.AvailabilityStatus `json:"status"`
	CreatedBy       uuid.UUID                `json:"created_by"`
	CreatedByName   string                   `json:"created_by_name"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ListResult bundles one page of back orders with the reported total.
// In status-filtered mode the total counts the filtered rows, not the
// raw match set.
type ListResult struct {
	Items      []BackOrderDTO `json:"items"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// CreateInput holds the validated payload for a back order.
type CreateInput struct {
	RetailerID   uuid.UUID
	GoodsID      uuid.UUID
	PackagingID  uuid.UUID
	RequestedQty int
}

// UpdateInput holds optional mutation values for an existing back order.
type UpdateInput struct {
	PackagingID  *uuid.UUID
	RequestedQty *int
}

// RowFailure records one rejected row of a bulk request.
type RowFailure struct {
	Index   int    `json:"index"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkResult summarizes a bulk create: how many rows were inserted fresh,
// how many merged into an existing tuple, and which rows failed.
type BulkResult struct {
	Inserted int          `json:"inserted"`
	Updated  int          `json:"updated"`
	Failed   []RowFailure `json:"failed"`
}
