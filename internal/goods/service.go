package goods

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/internal/auth"
	"github.com/milkdist/warehouse-backend/pkg/db"
	"github.com/milkdist/warehouse-backend/pkg/db/models"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
	"github.com/milkdist/warehouse-backend/pkg/pagination"
)

// Service exposes goods catalog management operations.
type Service interface {
	Create(ctx context.Context, actor auth.Actor, input CreateGoodsInput) (*GoodsDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*GoodsDTO, error)
	Update(ctx context.Context, actor auth.Actor, id uuid.UUID, input UpdateGoodsInput) (*GoodsDTO, error)
	AddPackaging(ctx context.Context, actor auth.Actor, goodsID uuid.UUID, input PackagingInput) (*GoodsDTO, error)
	List(ctx context.Context, input ListGoodsInput) (*GoodsListResult, error)
}

// CreateGoodsInput holds the validated payload to register a goods item.
type CreateGoodsInput struct {
	Code          string
	Name          string
	UnitMeasureID uuid.UUID
	SupplierID    uuid.UUID
	Packagings    []PackagingInput
}

// PackagingInput defines one packaging variant.
type PackagingInput struct {
	Name            string
	VolumeLiters    decimal.Decimal
	UnitsPerPackage int
}

// UpdateGoodsInput holds optional mutation values.
type UpdateGoodsInput struct {
	Name     *string
	IsActive *bool
}

// ListGoodsInput narrows and pages the goods listing.
type ListGoodsInput struct {
	Search     string
	ActiveOnly bool
	Page       pagination.Params
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a goods service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("goods repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, input CreateGoodsInput) (*GoodsDTO, error) {
	if !actor.CanMutate() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage goods")
	}
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code and name are required")
	}
	if input.UnitMeasureID == uuid.Nil || input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_measure_id and supplier_id are required")
	}
	if len(input.Packagings) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one packaging is required")
	}
	for _, p := range input.Packagings {
		if err := validatePackaging(p); err != nil {
			return nil, err
		}
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		goods := &models.Goods{
			Code:          code,
			Name:          name,
			UnitMeasureID: input.UnitMeasureID,
			SupplierID:    input.SupplierID,
			IsActive:      true,
		}
		created, err := txRepo.Create(ctx, goods)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("goods code %q already exists", code))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert goods")
		}
		createdID = created.ID

		for _, p := range input.Packagings {
			packaging := &models.GoodsPackaging{
				GoodsID:         created.ID,
				Name:            strings.TrimSpace(p.Name),
				VolumeLiters:    p.VolumeLiters,
				UnitsPerPackage: p.UnitsPerPackage,
			}
			if _, err := txRepo.CreatePackaging(ctx, packaging); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert packaging")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create goods")
	}

	return s.Get(ctx, createdID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*GoodsDTO, error) {
	goods, err := s.findGoods(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(goods), nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, id uuid.UUID, input UpdateGoodsInput) (*GoodsDTO, error) {
	if !actor.CanMutate() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage goods")
	}
	goods, err := s.findGoods(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		goods.Name = name
	}
	if input.IsActive != nil {
		goods.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, goods); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update goods")
	}
	return s.Get(ctx, id)
}

func (s *service) AddPackaging(ctx context.Context, actor auth.Actor, goodsID uuid.UUID, input PackagingInput) (*GoodsDTO, error) {
	if !actor.CanMutate() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage goods")
	}
	if err := validatePackaging(input); err != nil {
		return nil, err
	}
	if _, err := s.findGoods(ctx, goodsID); err != nil {
		return nil, err
	}

	packaging := &models.GoodsPackaging{
		GoodsID:         goodsID,
		Name:            strings.TrimSpace(input.Name),
		VolumeLiters:    input.VolumeLiters,
		UnitsPerPackage: input.UnitsPerPackage,
	}
	if _, err := s.repo.CreatePackaging(ctx, packaging); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert packaging")
	}
	return s.Get(ctx, goodsID)
}

func (s *service) List(ctx context.Context, input ListGoodsInput) (*GoodsListResult, error) {
	page := input.Page.Normalize()
	rows, total, err := s.repo.List(ctx, strings.TrimSpace(input.Search), input.ActiveOnly, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list goods")
	}
	return &GoodsListResult{
		Items:      fromModels(rows),
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}, nil
}

func (s *service) findGoods(ctx context.Context, id uuid.UUID) (*models.Goods, error) {
	goods, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "goods not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load goods")
	}
	return goods, nil
}

func validatePackaging(p PackagingInput) error {
	if strings.TrimSpace(p.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "packaging name is required")
	}
	if p.VolumeLiters.IsNegative() || p.VolumeLiters.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "volume_liters must be positive")
	}
	if p.UnitsPerPackage <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "units_per_package must be positive")
	}
	return nil
}
