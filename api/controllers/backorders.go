package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/milkdist/warehouse-backend/api/responses"
	"github.com/milkdist/warehouse-backend/api/validators"
	"github.com/milkdist/warehouse-backend/internal/auth"
	"github.com/milkdist/warehouse-backend/internal/backorders"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
	"github.com/milkdist/warehouse-backend/pkg/logger"
	"github.com/milkdist/warehouse-backend/pkg/pagination"
)

// filterParams are the whitelisted listing filters passed through to the
// service stage, which owns their validation.
var filterParams = []string{"retailer_id", "goods_id", "packaging_id", "created_by", "status"}

// ListBackOrders handles the filtered, sorted, paginated listing.
func ListBackOrders(svc backorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filters := map[string]string{}
		for _, key := range filterParams {
			if value := strings.TrimSpace(query.Get(key)); value != "" {
				filters[key] = value
			}
		}

		input := backorders.ListInput{
			Filters: filters,
			Search:  strings.TrimSpace(query.Get("q")),
			Sort:    strings.TrimSpace(query.Get("sort")),
			Order:   strings.TrimSpace(query.Get("order")),
			Page:    pagination.Params{Page: page, PageSize: pageSize},
		}

		result, err := svc.List(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func GetBackOrder(svc backorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type createBackOrderRequest struct {
	RetailerID   string `json:"retailer_id" validate:"required,uuid"`
	GoodsID      string `json:"goods_id" validate:"required,uuid"`
	PackagingID  string `json:"packaging_id" validate:"required,uuid"`
	RequestedQty int    `json:"requested_qty" validate:"required,gt=0"`
}

func (req createBackOrderRequest) toInput() (backorders.CreateInput, error) {
	retailerID, err := validators.ParseUUID(req.RetailerID, "retailer_id")
	if err != nil {
		return backorders.CreateInput{}, err
	}
	goodsID, err := validators.ParseUUID(req.GoodsID, "goods_id")
	if err != nil {
		return backorders.CreateInput{}, err
	}
	packagingID, err := validators.ParseUUID(req.PackagingID, "packaging_id")
	if err != nil {
		return backorders.CreateInput{}, err
	}
	return backorders.CreateInput{
		RetailerID:   retailerID,
		GoodsID:      goodsID,
		PackagingID:  packagingID,
		RequestedQty: req.RequestedQty,
	}, nil
}

func CreateBackOrder(svc backorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createBackOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type updateBackOrderRequest struct {
	PackagingID  *string `json:"packaging_id,omitempty" validate:"omitempty,uuid"`
	RequestedQty *int    `json:"requested_qty,omitempty" validate:"omitempty,gt=0"`
}

func UpdateBackOrder(svc backorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBackOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := backorders.UpdateInput{RequestedQty: payload.RequestedQty}
		if payload.PackagingID != nil {
			packagingID, err := validators.ParseUUID(*payload.PackagingID, "packaging_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.PackagingID = &packagingID
		}

		order, err := svc.Update(r.Context(), actor, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

func DeleteBackOrder(svc backorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type bulkCreateRequest struct {
	Items []createBackOrderRequest `json:"items" validate:"required,min=1,dive"`
}

// BulkCreateBackOrders accepts a batch of rows and reports per-row outcomes.
func BulkCreateBackOrders(svc backorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bulkCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]backorders.CreateInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			input, err := item.toInput()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			inputs = append(inputs, input)
		}

		result, err := svc.BulkCreate(r.Context(), actor, inputs)
		if err != nil {
			if coded := pkgerrors.As(err); coded != nil && result != nil {
				responses.WriteError(r.Context(), logg, w, coded.WithDetails(map[string]any{"failed": result.Failed}))
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if len(result.Failed) > 0 {
			status = http.StatusMultiStatus
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}
