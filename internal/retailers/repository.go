package retailers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/pkg/db/models"
	"github.com/milkdist/warehouse-backend/pkg/pagination"
)

// Repository persists retailer records.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the retailer and returns the persisted row.
func (r *Repository) Create(ctx context.Context, retailer *models.Retailer) (*models.Retailer, error) {
	if err := r.db.WithContext(ctx).Create(retailer).Error; err != nil {
		return nil, err
	}
	return retailer, nil
}

// FindByID loads a retailer that has not been soft deleted.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Retailer, error) {
	var retailer models.Retailer
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&retailer).Error
	if err != nil {
		return nil, err
	}
	return &retailer, nil
}

// Update saves the full retailer row.
func (r *Repository) Update(ctx context.Context, retailer *models.Retailer) (*models.Retailer, error) {
	if err := r.db.WithContext(ctx).Save(retailer).Error; err != nil {
		return nil, err
	}
	return retailer, nil
}

// SoftDelete stamps deleted_at without removing the row.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Retailer{}).
		Where("id = ? AND deleted_at IS NULL", id).
		UpdateColumn("deleted_at", at).Error
}

// List returns a page of live retailers ordered by name, optionally
// narrowed by a case-sensitive substring match on code or name.
func (r *Repository) List(ctx context.Context, search string, p pagination.Params) ([]models.Retailer, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Retailer{}).
		Where("deleted_at IS NULL")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Retailer
	err := query.
		Order("name ASC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
