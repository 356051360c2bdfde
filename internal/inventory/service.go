package inventory

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
	"github.com/milkdist/warehouse-backend/pkg/enums"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
	"github.com/milkdist/warehouse-backend/pkg/outbox"
)

// BatchDTO is the transport shape for a received batch.
type BatchDTO struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	GoodsID     uuid.UUID `json:"goods_id"`
	PackagingID uuid.UUID `json:"packaging_id"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	AreaID      uuid.UUID `json:"area_id"`
	PackageQty  int       `json:"package_qty"`
	ExpiresAt   time.Time `json:"expires_at"`
	ReceivedAt  time.Time `json:"received_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordBatchInput holds the validated payload for a batch intake.
type RecordBatchInput struct {
	Code               string
	GoodsID            uuid.UUID
	PackagingID        uuid.UUID
	SupplierID         uuid.UUID
	AreaID             uuid.UUID
	StorageConditionID *uuid.UUID
	PackageQty         int
	ExpiresAt          time.Time
	ReceivedAt         *time.Time
}

type packagingChecker interface {
	FindPackaging(ctx context.Context, goodsID, packagingID uuid.UUID) (*models.GoodsPackaging, error)
}

// Service handles batch intake on top of the availability calculator.
type Service struct {
	repo      *Repository
	dbClient  *db.Client
	goodsRepo packagingChecker
	events    *outbox.Service
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, dbClient *db.Client, goodsRepo packagingChecker, events *outbox.Service) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if goodsRepo == nil {
		return nil, fmt.Errorf("goods repository required")
	}
	return &Service{repo: repo, dbClient: dbClient, goodsRepo: goodsRepo, events: events}, nil
}

// RecordBatch registers a received batch and queues a batch_received event
// in the same transaction.
func (s *Service) RecordBatch(ctx context.Context, actor auth.Actor, input RecordBatchInput) (*BatchDTO, error) {
	if !actor.CanMutate() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot record batches")
	}
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if input.PackageQty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "package_qty must be positive")
	}
	if input.ExpiresAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expires_at is required")
	}
	if input.SupplierID == uuid.Nil || input.AreaID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_id and area_id are required")
	}

	if _, err := s.goodsRepo.FindPackaging(ctx, input.GoodsID, input.PackagingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown goods and packaging combination")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check packaging")
	}

	receivedAt := time.Now().UTC()
	if input.ReceivedAt != nil {
		receivedAt = input.ReceivedAt.UTC()
	}
	if !input.ExpiresAt.After(receivedAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expires_at must be after received_at")
	}

	batch := &models.Batch{
		Code:               code,
		GoodsID:            input.GoodsID,
		PackagingID:        input.PackagingID,
		SupplierID:         input.SupplierID,
		AreaID:             input.AreaID,
		StorageConditionID: input.StorageConditionID,
		PackageQty:         input.PackageQty,
		ExpiresAt:          input.ExpiresAt.UTC(),
		ReceivedAt:         receivedAt,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		created, err := txRepo.CreateBatch(ctx, batch)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("batch code %q already exists", code))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert batch")
		}
		if s.events == nil {
			return nil
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBatchReceived,
			AggregateType: enums.AggregateBatch,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: string(actor.Role)},
			Data: map[string]interface{}{
				"batch_id":     created.ID,
				"goods_id":     created.GoodsID,
				"packaging_id": created.PackagingID,
				"package_qty":  created.PackageQty,
				"expires_at":   created.ExpiresAt,
			},
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record batch")
	}

	return &BatchDTO{
		ID:          batch.ID,
		Code:        batch.Code,
		GoodsID:     batch.GoodsID,
		PackagingID: batch.PackagingID,
		SupplierID:  batch.SupplierID,
		AreaID:      batch.AreaID,
		PackageQty:  batch.PackageQty,
		ExpiresAt:   batch.ExpiresAt,
		ReceivedAt:  batch.ReceivedAt,
		CreatedAt:   batch.CreatedAt,
	}, nil
}
