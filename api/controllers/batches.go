package controllers

import (
	"net/http"
	"time"

	"github.com/milkdist/warehouse-backend/api/responses"
	"github.com/milkdist/warehouse-backend/api/validators"
	"github.com/milkdist/warehouse-backend/internal/auth"
	"github.com/milkdist/warehouse-backend/internal/inventory"
	"github.com/milkdist/warehouse-backend/pkg/logger"
	"github.com/google/uuid"
)

type recordBatchRequest struct {
	Code               string     `json:"code" validate:"required"`
	GoodsID            string     `json:"goods_id" validate:"required,uuid"`
	PackagingID        string     `json:"packaging_id" validate:"required,uuid"`
	SupplierID         string     `json:"supplier_id" validate:"required,uuid"`
	AreaID             string     `json:"area_id" validate:"required,uuid"`
	StorageConditionID *string    `json:"storage_condition_id,omitempty" validate:"omitempty,uuid"`
	PackageQty         int        `json:"package_qty" validate:"required,gt=0"`
	ExpiresAt          time.Time  `json:"expires_at" validate:"required"`
	ReceivedAt         *time.Time `json:"received_at,omitempty"`
}

// RecordBatch handles warehouse batch intake.
func RecordBatch(svc *inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload recordBatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inventory.RecordBatchInput{
			Code:       payload.Code,
			PackageQty: payload.PackageQty,
			ExpiresAt:  payload.ExpiresAt,
			ReceivedAt: payload.ReceivedAt,
		}

		ids := []struct {
			raw   string
			field string
			dest  *uuid.UUID
		}{
			{payload.GoodsID, "goods_id", &input.GoodsID},
			{payload.PackagingID, "packaging_id", &input.PackagingID},
			{payload.SupplierID, "supplier_id", &input.SupplierID},
			{payload.AreaID, "area_id", &input.AreaID},
		}
		for _, id := range ids {
			parsed, err := validators.ParseUUID(id.raw, id.field)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			*id.dest = parsed
		}
		if payload.StorageConditionID != nil {
			parsed, err := validators.ParseUUID(*payload.StorageConditionID, "storage_condition_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.StorageConditionID = &parsed
		}

		batch, err := svc.RecordBatch(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, batch)
	}
}
