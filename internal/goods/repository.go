package goods

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/pkg/db/models"
	"github.com/milkdist/warehouse-backend/pkg/pagination"
)

// Repository persists goods and their packaging variants.
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

// Create inserts the goods row without associations.
func (r *Repository) Create(ctx context.Context, goods *models.Goods) (*models.Goods, error) {
	if err := r.db.WithContext(ctx).Omit("UnitMeasure", "Supplier", "Packagings").Create(goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

// CreatePackaging inserts one packaging variant for a goods item.
func (r *Repository) CreatePackaging(ctx context.Context, packaging *models.GoodsPackaging) (*models.GoodsPackaging, error) {
	if err := r.db.WithContext(ctx).Create(packaging).Error; err != nil {
		return nil, err
	}
	return packaging, nil
}

// FindByID loads the goods row with unit, supplier, and packagings preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Goods, error) {
	var goods models.Goods
	err := r.db.WithContext(ctx).
		Preload("UnitMeasure").
		Preload("Supplier").
		Preload("Packagings").
		First(&goods, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &goods, nil
}

// FindPackaging loads one packaging variant and checks it belongs to the goods.
func (r *Repository) FindPackaging(ctx context.Context, goodsID, packagingID uuid.UUID) (*models.GoodsPackaging, error) {
	var packaging models.GoodsPackaging
	err := r.db.WithContext(ctx).
		Where("id = ? AND goods_id = ?", packagingID, goodsID).
		First(&packaging).Error
	if err != nil {
		return nil, err
	}
	return &packaging, nil
}

// Update saves the goods row without touching associations.
func (r *Repository) Update(ctx context.Context, goods *models.Goods) (*models.Goods, error) {
	err := r.db.WithContext(ctx).
		Omit("UnitMeasure", "Supplier", "Packagings").
		Save(goods).Error
	if err != nil {
		return nil, err
	}
	return goods, nil
}

// List returns a page of goods ordered by name with associations preloaded.
func (r *Repository) List(ctx context.Context, search string, activeOnly bool, p pagination.Params) ([]models.Goods, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Goods{})
	if activeOnly {
		query = query.Where("is_active = TRUE")
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Goods
	err := query.
		Preload("UnitMeasure").
		Preload("Supplier").
		Preload("Packagings").
		Order("name ASC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
