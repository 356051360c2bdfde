package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/milkdist/warehouse-backend/pkg/enums"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
)

// Pair is the inventory lookup key: a goods item in a specific packaging.
type Pair struct {
	GoodsID     uuid.UUID
	PackagingID uuid.UUID
}

// Availability reports the live stock for one pair at lookup time.
type Availability struct {
	Pair         Pair
	AvailableQty int64
}

type stockReader interface {
	SumAvailable(ctx context.Context, pairs []Pair, asOf time.Time) (map[Pair]int64, error)
}

// Calculator derives availability from live batch stock. Nothing is
// persisted; every lookup reflects the batches at that moment.
type Calculator struct {
	stock stockReader
	now   func() time.Time
}

// NewCalculator builds a calculator over the provided stock reader.
func NewCalculator(stock stockReader) (*Calculator, error) {
	if stock == nil {
		return nil, fmt.Errorf("stock reader required")
	}
	return &Calculator{stock: stock, now: time.Now}, nil
}

// Lookup returns the summed non-expired package quantity for every requested
// pair. Pairs with no live batches are present in the result with a zero
// quantity, so callers can treat absence and exhaustion the same way.
func (c *Calculator) Lookup(ctx context.Context, pairs []Pair) (map[Pair]int64, error) {
	if len(pairs) == 0 {
		return map[Pair]int64{}, nil
	}
	sums, err := c.stock.SumAvailable(ctx, dedupePairs(pairs), c.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum batch stock")
	}
	for _, pair := range pairs {
		if _, ok := sums[pair]; !ok {
			sums[pair] = 0
		}
	}
	return sums, nil
}

// LookupOne is a convenience wrapper for single-pair reads.
func (c *Calculator) LookupOne(ctx context.Context, pair Pair) (int64, error) {
	sums, err := c.Lookup(ctx, []Pair{pair})
	if err != nil {
		return 0, err
	}
	return sums[pair], nil
}

// StatusFor labels a requested quantity against the available stock.
func StatusFor(availableQty int64, requestedQty int) enums.AvailabilityStatus {
	if availableQty >= int64(requestedQty) {
		return enums.AvailabilityAvailable
	}
	return enums.AvailabilityUnavailable
}

func dedupePairs(pairs []Pair) []Pair {
	seen := make(map[Pair]struct{}, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for _, pair := range pairs {
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		out = append(out, pair)
	}
	return out
}
