package backorders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/internal/auth"
	"github.com/milkdist/warehouse-backend/pkg/enums"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
	"github.com/milkdist/warehouse-backend/pkg/outbox"
)

// BulkCreate upserts a batch of back orders in one transaction. A failed
// row is recorded and does not stop the batch; the transaction commits
// unless every row failed, in which case it rolls back and the aggregated
// row errors are returned.
func (s *service) BulkCreate(ctx context.Context, actor auth.Actor, inputs []CreateInput) (*BulkResult, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.CanMutate() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage back orders")
	}
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one row is required")
	}

	result := &BulkResult{Failed: []RowFailure{}}
	var rowErrs []error

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		var aggregateIDs []uuid.UUID

		for i, input := range inputs {
			order, merged, err := s.upsertRow(ctx, txRepo, actor, input)
			if err != nil {
				coded := pkgerrors.As(err)
				if coded == nil || coded.Code() != pkgerrors.CodeValidation {
					// Unexpected failure inside the transaction: abort the batch.
					return err
				}
				result.Failed = append(result.Failed, RowFailure{
					Index:   i,
					Code:    string(coded.Code()),
					Message: coded.Message(),
				})
				rowErrs = append(rowErrs, fmt.Errorf("row %d: %s", i, coded.Message()))
				continue
			}
			if merged {
				result.Updated++
			} else {
				result.Inserted++
			}
			aggregateIDs = append(aggregateIDs, order.ID)
		}

		if result.Inserted+result.Updated == 0 {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, multierr.Combine(rowErrs...), "all rows failed")
		}

		if s.events == nil {
			return nil
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBackOrderBulkCreated,
			AggregateType: enums.AggregateBackOrder,
			AggregateID:   uuid.New(),
			Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: string(actor.Role)},
			Data: map[string]interface{}{
				"back_order_ids": aggregateIDs,
				"inserted":       result.Inserted,
				"updated":        result.Updated,
				"failed":         len(result.Failed),
			},
		})
	})
	if txErr != nil {
		if pkgerrors.As(txErr) != nil {
			return result, txErr
		}
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "bulk create back orders")
	}
	return result, nil
}
