package backorders

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/milkdist/warehouse-backend/pkg/enums"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
	"github.com/milkdist/warehouse-backend/pkg/pagination"
)

// ListInput carries the raw listing request before validation.
type ListInput struct {
	Filters map[string]string
	Search  string
	Sort    string
	Order   string
	Page    pagination.Params
}

// predicate is one SQL condition contributed by the filter stage.
type predicate struct {
	clause string
	arg    interface{}
}

// listQuery is the validated form of a listing request. StatusFilter is
// carried separately because status is computed, never a column.
type listQuery struct {
	predicates   []predicate
	search       string
	orderBy      string
	statusFilter *enums.AvailabilityStatus
	page         pagination.Params
}

const fullNameExpr = "(users.first_name || ' ' || users.last_name)"

// columnFilters is the closed set of filterable keys mapped to their columns.
var columnFilters = map[string]string{
	"retailer_id":  "back_orders.retailer_id",
	"goods_id":     "back_orders.goods_id",
	"packaging_id": "back_orders.packaging_id",
	"created_by":   "back_orders.created_by",
}

// sortAliases is the closed set of sortable fields. Navigation aliases
// resolve through the listing joins.
var sortAliases = map[string]string{
	"created_at":        "back_orders.created_at",
	"updated_at":        "back_orders.updated_at",
	"requested_qty":     "back_orders.requested_qty",
	"retailer_name":     "retailers.name",
	"goods_name":        "goods.name",
	"unit_measure_name": "unit_measures.name",
	"created_by_name":   fullNameExpr,
}

// buildListQuery validates the raw input against the closed filter and sort
// sets. Unknown filter keys and sort fields are rejected rather than ignored.
func buildListQuery(input ListInput) (*listQuery, error) {
	q := &listQuery{
		search: input.Search,
		page:   input.Page.Normalize(),
	}

	for key, value := range input.Filters {
		if key == "status" {
			status, err := enums.ParseAvailabilityStatus(value)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			q.statusFilter = &status
			continue
		}
		column, ok := columnFilters[key]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown filter field %q", key))
		}
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("filter %s: invalid uuid %q", key, value))
		}
		q.predicates = append(q.predicates, predicate{clause: column + " = ?", arg: id})
	}

	orderBy, err := buildOrderBy(input.Sort, input.Order)
	if err != nil {
		return nil, err
	}
	q.orderBy = orderBy

	return q, nil
}

func buildOrderBy(sort, order string) (string, error) {
	column := sortAliases["created_at"]
	if sort != "" {
		mapped, ok := sortAliases[sort]
		if !ok {
			return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sort field %q", sort))
		}
		column = mapped
	}

	direction := "ASC"
	switch strings.ToLower(order) {
	case "", "asc":
	case "desc":
		direction = "DESC"
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sort order %q", order))
	}

	// Stable tiebreaker so identical requests page identically.
	return fmt.Sprintf("%s %s, back_orders.id ASC", column, direction), nil
}
