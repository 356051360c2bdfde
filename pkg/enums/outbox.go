package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateBackOrder OutboxAggregateType = "back_order"
	AggregateBatch     OutboxAggregateType = "batch"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateBackOrder,
	AggregateBatch,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventBackOrderCreated     OutboxEventType = "backorder_created"
	EventBackOrderUpdated     OutboxEventType = "backorder_updated"
	EventBackOrderDeleted     OutboxEventType = "backorder_deleted"
	EventBackOrderBulkCreated OutboxEventType = "backorder_bulk_created"
	EventBatchReceived        OutboxEventType = "batch_received"
)

var validOutboxEventTypes = []OutboxEventType{
	EventBackOrderCreated,
	EventBackOrderUpdated,
	EventBackOrderDeleted,
	EventBackOrderBulkCreated,
	EventBatchReceived,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}
