package backorders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/pkg/db/models"
)

// listRow is the denormalized listing projection.
type listRow struct {
	ID              uuid.UUID
	Code            string
	RetailerID      uuid.UUID
	RetailerName    string
	GoodsID         uuid.UUID
	GoodsName       string
	PackagingID     uuid.UUID
	PackagingName   string
	UnitMeasureName string
	RequestedQty    int
	CreatedBy       uuid.UUID
	CreatedByName   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const listSelect = `back_orders.id,
back_orders.code,
back_orders.retailer_id,
retailers.name AS retailer_name,
back_orders.goods_id,
goods.name AS goods_name,
back_orders.packaging_id,
goods_packagings.name AS packaging_name,
unit_measures.name AS unit_measure_name,
back_orders.requested_qty,
back_orders.created_by,
` + fullNameExpr + ` AS created_by_name,
back_orders.created_at,
back_orders.updated_at`

// Repository persists back orders and serves the joined listing reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) baseQuery(ctx context.Context, q *listQuery) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.BackOrder{}).
		Joins("JOIN retailers ON retailers.id = back_orders.retailer_id").
		Joins("JOIN goods ON goods.id = back_orders.goods_id").
		Joins("JOIN goods_packagings ON goods_packagings.id = back_orders.packaging_id").
		Joins("JOIN unit_measures ON unit_measures.id = goods.unit_measure_id").
		Joins("JOIN users ON users.id = back_orders.created_by")

	for _, p := range q.predicates {
		query = query.Where(p.clause, p.arg)
	}
	if q.search != "" {
		like := "%" + q.search + "%"
		query = query.Where(
			"retailers.name LIKE ? OR goods.name LIKE ? OR unit_measures.name LIKE ? OR "+fullNameExpr+" LIKE ?",
			like, like, like, like,
		)
	}
	return query
}

// Count returns the number of rows matching the query's SQL stage.
func (r *Repository) Count(ctx context.Context, q *listQuery) (int64, error) {
	var total int64
	if err := r.baseQuery(ctx, q).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListPage fetches one ordered page of the SQL match set.
func (r *Repository) ListPage(ctx context.Context, q *listQuery, offset, limit int) ([]listRow, error) {
	var rows []listRow
	err := r.baseQuery(ctx, q).
		Select(listSelect).
		Order(q.orderBy).
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll fetches the full ordered SQL match set up to limit rows. Callers
// pass cap+1 and treat an overflowing result as too large to scan.
func (r *Repository) ListAll(ctx context.Context, q *listQuery, limit int) ([]listRow, error) {
	var rows []listRow
	err := r.baseQuery(ctx, q).
		Select(listSelect).
		Order(q.orderBy).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindRowByID loads the joined listing projection for a single back order.
func (r *Repository) FindRowByID(ctx context.Context, id uuid.UUID) (*listRow, error) {
	var row listRow
	query := r.baseQuery(ctx, &listQuery{}).
		Select(listSelect).
		Where("back_orders.id = ?", id)
	if err := query.Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByID loads the bare back order row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.BackOrder, error) {
	var order models.BackOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByTuple loads the back order for the dedup tuple, if any.
func (r *Repository) FindByTuple(ctx context.Context, retailerID, goodsID, packagingID uuid.UUID) (*models.BackOrder, error) {
	var order models.BackOrder
	err := r.db.WithContext(ctx).
		Where("retailer_id = ? AND goods_id = ? AND packaging_id = ?", retailerID, goodsID, packagingID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create inserts the back order without associations.
func (r *Repository) Create(ctx context.Context, order *models.BackOrder) (*models.BackOrder, error) {
	err := r.db.WithContext(ctx).
		Omit("Retailer", "Goods", "Packaging", "Creator").
		Create(order).Error
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Update saves the back order row without touching associations.
func (r *Repository) Update(ctx context.Context, order *models.BackOrder) (*models.BackOrder, error) {
	err := r.db.WithContext(ctx).
		Omit("Retailer", "Goods", "Packaging", "Creator").
		Save(order).Error
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes the back order row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.BackOrder{}, "id = ?", id).Error
}

// RetailerExists reports whether a live retailer with the id exists.
func (r *Repository) RetailerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Retailer{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PackagingBelongsToGoods reports whether the packaging exists under the goods.
func (r *Repository) PackagingBelongsToGoods(ctx context.Context, goodsID, packagingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GoodsPackaging{}).
		Where("id = ? AND goods_id = ?", packagingID, goodsID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
