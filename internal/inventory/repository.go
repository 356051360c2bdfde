package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/pkg/db/models"
)

// Repository reads batch stock and records incoming batches.
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

type stockRow struct {
	GoodsID     uuid.UUID
	PackagingID uuid.UUID
	Total       int64
}

// SumAvailable aggregates package_qty across batches that have not expired
// as of the provided instant, grouped by (goods_id, packaging_id). Pairs
// without live batches produce no row.
func (r *Repository) SumAvailable(ctx context.Context, pairs []Pair, asOf time.Time) (map[Pair]int64, error) {
	if len(pairs) == 0 {
		return map[Pair]int64{}, nil
	}

	var clauses []string
	var args []interface{}
	for _, pair := range pairs {
		clauses = append(clauses, "(goods_id = ? AND packaging_id = ?)")
		args = append(args, pair.GoodsID, pair.PackagingID)
	}

	var rows []stockRow
	err := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Select("goods_id, packaging_id, SUM(package_qty) AS total").
		Where("expires_at > ?", asOf).
		Where(strings.Join(clauses, " OR "), args...).
		Group("goods_id, packaging_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[Pair]int64, len(rows))
	for _, row := range rows {
		out[Pair{GoodsID: row.GoodsID, PackagingID: row.PackagingID}] = row.Total
	}
	return out, nil
}

// CreateBatch inserts a received batch.
func (r *Repository) CreateBatch(ctx context.Context, batch *models.Batch) (*models.Batch, error) {
	if err := r.db.WithContext(ctx).Omit("Goods", "Packaging").Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

// FindBatchByID loads one batch row.
func (r *Repository) FindBatchByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}
