package backorders

import (
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
	"github.com/milkdist/warehouse-backend/pkg/pagination"
)

func TestBuildListQueryStatusOnlyAddsNoPredicates(t *testing.T) {
	q, err := buildListQuery(ListInput{
		Filters: map[string]string{"status": "available"},
	})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if len(q.predicates) != 0 {
		t.Fatalf("status-only filter map must add no SQL predicates, got %d", len(q.predicates))
	}
	if q.statusFilter == nil || q.statusFilter.String() != "available" {
		t.Fatalf("expected status filter to be captured, got %v", q.statusFilter)
	}
}

func TestBuildListQueryStatusCaseInsensitive(t *testing.T) {
	q, err := buildListQuery(ListInput{
		Filters: map[string]string{"status": "AVAILABLE"},
	})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if q.statusFilter.String() != "available" {
		t.Fatalf("expected canonical status, got %s", q.statusFilter)
	}
}

func TestBuildListQueryRejectsUnknownFilter(t *testing.T) {
	_, err := buildListQuery(ListInput{
		Filters: map[string]string{"warehouse_id": uuid.NewString()},
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown filter, got %v", err)
	}
}

func TestBuildListQueryRejectsBadUUID(t *testing.T) {
	_, err := buildListQuery(ListInput{
		Filters: map[string]string{"retailer_id": "not-a-uuid"},
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad uuid, got %v", err)
	}
}

func TestBuildListQueryColumnFilters(t *testing.T) {
	id := uuid.New()
	q, err := buildListQuery(ListInput{
		Filters: map[string]string{"retailer_id": id.String(), "created_by": id.String()},
	})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if len(q.predicates) != 2 {
		t.Fatalf("expected 2 predicates, got %d", len(q.predicates))
	}
}

func TestBuildOrderByDefaults(t *testing.T) {
	orderBy, err := buildOrderBy("", "")
	if err != nil {
		t.Fatalf("build order by: %v", err)
	}
	if orderBy != "back_orders.created_at ASC, back_orders.id ASC" {
		t.Fatalf("unexpected default ordering %q", orderBy)
	}
}

func TestBuildOrderByNavigationAlias(t *testing.T) {
	orderBy, err := buildOrderBy("unit_measure_name", "")
	if err != nil {
		t.Fatalf("build order by: %v", err)
	}
	if orderBy != "unit_measures.name ASC, back_orders.id ASC" {
		t.Fatalf("expected unit measure path ascending by default, got %q", orderBy)
	}
}

func TestBuildOrderByRejectsUnknownField(t *testing.T) {
	_, err := buildOrderBy("availability", "asc")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown sort field, got %v", err)
	}
}

func TestBuildOrderByRejectsUnknownDirection(t *testing.T) {
	_, err := buildOrderBy("created_at", "sideways")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown direction, got %v", err)
	}
}

func TestBuildListQueryNormalizesPage(t *testing.T) {
	q, err := buildListQuery(ListInput{Page: pagination.Params{Page: -3, PageSize: 9999}})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if q.page.Page != 1 {
		t.Fatalf("expected page normalized to 1, got %d", q.page.Page)
	}
	if q.page.PageSize != pagination.MaxPageSize {
		t.Fatalf("expected page size clamped to %d, got %d", pagination.MaxPageSize, q.page.PageSize)
	}
}
