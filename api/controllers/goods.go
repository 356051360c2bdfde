package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/milkdist/warehouse-backend/api/responses"
	"github.com/milkdist/warehouse-backend/api/validators"
	"github.com/milkdist/warehouse-backend/internal/auth"
	"github.com/milkdist/warehouse-backend/internal/goods"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
	"github.com/milkdist/warehouse-backend/pkg/logger"
	"github.com/milkdist/warehouse-backend/pkg/pagination"
)

type packagingRequest struct {
	Name            string `json:"name" validate:"required"`
	VolumeLiters    string `json:"volume_liters" validate:"required"`
	UnitsPerPackage int    `json:"units_per_package" validate:"required,gt=0"`
}

func (req packagingRequest) toInput() (goods.PackagingInput, error) {
	volume, err := decimal.NewFromString(strings.TrimSpace(req.VolumeLiters))
	if err != nil {
		return goods.PackagingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid volume_liters")
	}
	return goods.PackagingInput{
		Name:            req.Name,
		VolumeLiters:    volume,
		UnitsPerPackage: req.UnitsPerPackage,
	}, nil
}

type createGoodsRequest struct {
	Code          string             `json:"code" validate:"required"`
	Name          string             `json:"name" validate:"required"`
	UnitMeasureID string             `json:"unit_measure_id" validate:"required,uuid"`
	SupplierID    string             `json:"supplier_id" validate:"required,uuid"`
	Packagings    []packagingRequest `json:"packagings" validate:"required,min=1,dive"`
}

func CreateGoods(svc goods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createGoodsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unitMeasureID, err := validators.ParseUUID(payload.UnitMeasureID, "unit_measure_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := validators.ParseUUID(payload.SupplierID, "supplier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		packagings := make([]goods.PackagingInput, 0, len(payload.Packagings))
		for _, pkg := range payload.Packagings {
			input, err := pkg.toInput()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			packagings = append(packagings, input)
		}

		item, err := svc.Create(r.Context(), actor, goods.CreateGoodsInput{
			Code:          payload.Code,
			Name:          payload.Name,
			UnitMeasureID: unitMeasureID,
			SupplierID:    supplierID,
			Packagings:    packagings,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func GetGoods(svc goods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

type updateGoodsRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func UpdateGoods(svc goods.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload updateGoodsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), actor, id, goods.UpdateGoodsInput{
			Name:     payload.Name,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// AddGoodsPackaging attaches one more packaging variant to an existing item.
func AddGoodsPackaging(svc goods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		goodsID, err := validators.ParseUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload packagingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AddPackaging(r.Context(), actor, goodsID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func ListGoods(svc goods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		result, err := svc.List(r.Context(), goods.ListGoodsInput{
			Search:     strings.TrimSpace(query.Get("q")),
			ActiveOnly: query.Get("active") == "true",
			Page:       pagination.Params{Page: page, PageSize: pageSize},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
