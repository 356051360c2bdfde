package backorders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/internal/auth"
	"github.com/milkdist/warehouse-backend/internal/inventory"
	"github.com/milkdist/warehouse-backend/pkg/db"
	"github.com/milkdist/warehouse-backend/pkg/db/models"
	"github.com/milkdist/warehouse-backend/pkg/enums"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
	"github.com/milkdist/warehouse-backend/pkg/outbox"
	"github.com/milkdist/warehouse-backend/pkg/pagination"
)

// Service exposes back order management operations. Every operation takes
// the acting user explicitly; a zero actor is rejected before any
// repository call.
type Service interface {
	List(ctx context.Context, actor auth.Actor, input ListInput) (*ListResult, error)
	Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*BackOrderDTO, error)
	Create(ctx context.Context, actor auth.Actor, input CreateInput) (*BackOrderDTO, error)
	Update(ctx context.Context, actor auth.Actor, id uuid.UUID, input UpdateInput) (*BackOrderDTO, error)
	Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	BulkCreate(ctx context.Context, actor auth.Actor, inputs []CreateInput) (*BulkResult, error)
}

type availabilityReader interface {
	Lookup(ctx context.Context, pairs []inventory.Pair) (map[inventory.Pair]int64, error)
}

type service struct {
	repo         *Repository
	dbClient     *db.Client
	availability availabilityReader
	events       *outbox.Service
	scanCap      int
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo          *Repository
	DBClient      *db.Client
	Availability  availabilityReader
	Events        *outbox.Service
	StatusScanCap int
}

// NewService constructs a back order service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("back order repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Availability == nil {
		return nil, fmt.Errorf("availability reader required")
	}
	if params.StatusScanCap <= 0 {
		return nil, fmt.Errorf("status scan cap must be positive")
	}
	return &service{
		repo:         params.Repo,
		dbClient:     params.DBClient,
		availability: params.Availability,
		events:       params.Events,
		scanCap:      params.StatusScanCap,
	}, nil
}

func requireActor(actor auth.Actor) error {
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authenticated actor")
	}
	return nil
}

// List serves the back order listing with derived availability. Two modes:
// without a status filter the database pages and counts; with one, every
// matching row up to the scan cap is fetched, labeled, filtered in memory,
// and paged from the filtered list.
func (s *service) List(ctx context.Context, actor auth.Actor, input ListInput) (*ListResult, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	q, err := buildListQuery(input)
	if err != nil {
		return nil, err
	}

	if q.statusFilter == nil {
		return s.listDatabasePaged(ctx, q)
	}
	return s.listComputeThenFilter(ctx, q)
}

func (s *service) listDatabasePaged(ctx context.Context, q *listQuery) (*ListResult, error) {
	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count back orders")
	}
	rows, err := s.repo.ListPage(ctx, q, q.page.Offset(), q.page.PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list back orders")
	}
	items, err := s.decorate(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Items:      items,
		TotalCount: total,
		Page:       q.page.Page,
		PageSize:   q.page.PageSize,
	}, nil
}

func (s *service) listComputeThenFilter(ctx context.Context, q *listQuery) (*ListResult, error) {
	rows, err := s.repo.ListAll(ctx, q, s.scanCap+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list back orders")
	}
	if len(rows) > s.scanCap {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("status filter matches more than %d rows; narrow the filters", s.scanCap))
	}

	items, err := s.decorate(ctx, rows)
	if err != nil {
		return nil, err
	}

	filtered := items[:0:0]
	for _, item := range items {
		if item.Status == *q.statusFilter {
			filtered = append(filtered, item)
		}
	}

	paged := pagination.Slice(filtered, q.page)
	return &ListResult{
		Items:      paged,
		TotalCount: int64(len(filtered)),
		Page:       q.page.Page,
		PageSize:   q.page.PageSize,
	}, nil
}

// decorate attaches availability and status to listing rows.
func (s *service) decorate(ctx context.Context, rows []listRow) ([]BackOrderDTO, error) {
	pairs := make([]inventory.Pair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, inventory.Pair{GoodsID: row.GoodsID, PackagingID: row.PackagingID})
	}
	sums, err := s.availability.Lookup(ctx, pairs)
	if err != nil {
		return nil, err
	}

	items := make([]BackOrderDTO, 0, len(rows))
	for _, row := range rows {
		available := sums[inventory.Pair{GoodsID: row.GoodsID, PackagingID: row.PackagingID}]
		items = append(items, BackOrderDTO{
			ID:              row.ID,
			Code:            row.Code,
			RetailerID:      row.RetailerID,
			RetailerName:    row.RetailerName,
			GoodsID:         row.GoodsID,
			GoodsName:       row.GoodsName,
			PackagingID:     row.PackagingID,
			PackagingName:   row.PackagingName,
			UnitMeasureName: row.UnitMeasureName,
			RequestedQty:    row.RequestedQty,
			AvailableQty:    available,
			Status:          inventory.StatusFor(available, row.RequestedQty),
			CreatedBy:       row.CreatedBy,
			CreatedByName:   row.CreatedByName,
			CreatedAt:       row.CreatedAt,
			UpdatedAt:       row.UpdatedAt,
		})
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*BackOrderDTO, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	row, err := s.repo.FindRowByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "back order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load back order")
	}
	items, err := s.decorate(ctx, []listRow{*row})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, input CreateInput) (*BackOrderDTO, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.CanMutate() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage back orders")
	}

	var orderID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, merged, err := s.upsertRow(ctx, txRepo, actor, input)
		if err != nil {
			return err
		}
		orderID = order.ID
		return s.emit(ctx, tx, actor, enums.EventBackOrderCreated, order, map[string]interface{}{
			"back_order_id": order.ID,
			"retailer_id":   order.RetailerID,
			"goods_id":      order.GoodsID,
			"packaging_id":  order.PackagingID,
			"requested_qty": order.RequestedQty,
			"merged":        merged,
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create back order")
	}

	return s.Get(ctx, actor, orderID)
}

// upsertRow validates references and inserts or merges one back order.
// Creating for an existing (retailer, goods, packaging) tuple adds to the
// open quantity instead of inserting a duplicate.
func (s *service) upsertRow(ctx context.Context, txRepo *Repository, actor auth.Actor, input CreateInput) (*models.BackOrder, bool, error) {
	if input.RequestedQty <= 0 {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "requested_qty must be positive")
	}

	ok, err := txRepo.RetailerExists(ctx, input.RetailerID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check retailer")
	}
	if !ok {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown retailer %s", input.RetailerID))
	}

	ok, err = txRepo.PackagingBelongsToGoods(ctx, input.GoodsID, input.PackagingID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check packaging")
	}
	if !ok {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("packaging %s does not belong to goods %s", input.PackagingID, input.GoodsID))
	}

	existing, err := txRepo.FindByTuple(ctx, input.RetailerID, input.GoodsID, input.PackagingID)
	if err == nil {
		existing.RequestedQty += input.RequestedQty
		updated, err := txRepo.Update(ctx, existing)
		if err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: merge back order")
		}
		return updated, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup dedup tuple")
	}

	order := &models.BackOrder{
		ID:           uuid.New(),
		Code:         nextCode(),
		RetailerID:   input.RetailerID,
		GoodsID:      input.GoodsID,
		PackagingID:  input.PackagingID,
		RequestedQty: input.RequestedQty,
		CreatedBy:    actor.UserID,
	}
	created, err := txRepo.Create(ctx, order)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert back order")
	}
	return created, false, nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, id uuid.UUID, input UpdateInput) (*BackOrderDTO, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.CanMutate() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage back orders")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "back order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load back order")
		}

		if input.PackagingID != nil && *input.PackagingID != order.PackagingID {
			ok, err := txRepo.PackagingBelongsToGoods(ctx, order.GoodsID, *input.PackagingID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check packaging")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("packaging %s does not belong to goods %s", *input.PackagingID, order.GoodsID))
			}
			order.PackagingID = *input.PackagingID
		}
		if input.RequestedQty != nil {
			if *input.RequestedQty <= 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "requested_qty must be positive")
			}
			order.RequestedQty = *input.RequestedQty
		}

		if _, err := txRepo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update back order")
		}
		return s.emit(ctx, tx, actor, enums.EventBackOrderUpdated, order, map[string]interface{}{
			"back_order_id": order.ID,
			"packaging_id":  order.PackagingID,
			"requested_qty": order.RequestedQty,
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update back order")
	}

	return s.Get(ctx, actor, id)
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.CanMutate() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage back orders")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "back order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load back order")
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete back order")
		}
		return s.emit(ctx, tx, actor, enums.EventBackOrderDeleted, order, map[string]interface{}{
			"back_order_id": order.ID,
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete back order")
	}
	return nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, actor auth.Actor, eventType enums.OutboxEventType, order *models.BackOrder, data map[string]interface{}) error {
	if s.events == nil {
		return nil
	}
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateBackOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: string(actor.Role)},
		Data:          data,
	})
}

// nextCode mints a human-facing order code. Codes land in a UNIQUE column,
// so 16 hex characters keep the collision odds negligible at warehouse scale.
func nextCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BO-" + strings.ToUpper(raw[:16])
}
