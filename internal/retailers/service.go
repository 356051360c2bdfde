package retailers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/internal/auth"
	"github.com/milkdist/warehouse-backend/pkg/db"
	"github.com/milkdist/warehouse-backend/pkg/db/models"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
	"github.com/milkdist/warehouse-backend/pkg/pagination"
)

// Service exposes retailer management operations.
type Service interface {
	Create(ctx context.Context, actor auth.Actor, input CreateRetailerInput) (*RetailerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RetailerDTO, error)
	Update(ctx context.Context, actor auth.Actor, id uuid.UUID, input UpdateRetailerInput) (*RetailerDTO, error)
	Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	List(ctx context.Context, input ListRetailersInput) (*RetailerListResult, error)
}

// CreateRetailerInput holds the validated payload to register a retailer.
type CreateRetailerInput struct {
	Code    string
	Name    string
	Phone   *string
	Email   *string
	Address *string
}

// UpdateRetailerInput holds optional mutation values.
type UpdateRetailerInput struct {
	Name     *string
	Phone    *string
	Email    *string
	Address  *string
	IsActive *bool
}

// ListRetailersInput narrows and pages the retailer listing.
type ListRetailersInput struct {
	Search string
	Page   pagination.Params
}

type repository interface {
	Create(ctx context.Context, retailer *models.Retailer) (*models.Retailer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Retailer, error)
	Update(ctx context.Context, retailer *models.Retailer) (*models.Retailer, error)
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, search string, p pagination.Params) ([]models.Retailer, int64, error)
}

type service struct {
	repo repository
}

// NewService constructs a retailer service instance.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("retailer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, input CreateRetailerInput) (*RetailerDTO, error) {
	if !actor.CanMutate() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage retailers")
	}
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code and name are required")
	}

	retailer := &models.Retailer{
		Code:     code,
		Name:     name,
		Phone:    input.Phone,
		Email:    input.Email,
		Address:  input.Address,
		IsActive: true,
	}
	created, err := s.repo.Create(ctx, retailer)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("retailer code %q already exists", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert retailer")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RetailerDTO, error) {
	retailer, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(retailer), nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, id uuid.UUID, input UpdateRetailerInput) (*RetailerDTO, error) {
	if !actor.CanMutate() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage retailers")
	}
	retailer, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		retailer.Name = name
	}
	if input.Phone != nil {
		retailer.Phone = input.Phone
	}
	if input.Email != nil {
		retailer.Email = input.Email
	}
	if input.Address != nil {
		retailer.Address = input.Address
	}
	if input.IsActive != nil {
		retailer.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, retailer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update retailer")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if !actor.CanMutate() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage retailers")
	}
	if _, err := s.findLive(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete retailer")
	}
	return nil
}

func (s *service) List(ctx context.Context, input ListRetailersInput) (*RetailerListResult, error) {
	page := input.Page.Normalize()
	rows, total, err := s.repo.List(ctx, strings.TrimSpace(input.Search), page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list retailers")
	}
	return &RetailerListResult{
		Items:      fromModels(rows),
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}, nil
}

func (s *service) findLive(ctx context.Context, id uuid.UUID) (*models.Retailer, error) {
	retailer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "retailer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load retailer")
	}
	return retailer, nil
}
