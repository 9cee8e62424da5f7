// Package reconciliation matches received goods against a purchase order and
// produces the variance report used for audit and supplier disputes.
//
// The computation is pure: it reads two item collections and returns a
// result. Fetching the collections and persisting the merged document belong
// to the caller.
package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/receiving/pkg/domain/entities"
)

// Reconciler classifies purchase order lines against received goods.
// A Reconciler holds no mutable state and is safe for concurrent use.
type Reconciler struct {
	now func() time.Time
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithClock overrides the clock used to stamp generated_at
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReconciler creates a Reconciler stamping results with the current UTC time
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile walks the purchase order lines in order, claiming aggregated
// receipts by normalized name. When two lines share a normalized name the
// first one claims the receipt and later ones are reported missing.
// Receipts nobody claimed are reported as extra.
func (r *Reconciler) Reconcile(
	poItems []entities.PurchaseOrderLineItem,
	receivedItems []entities.ReceivedLineItem,
) entities.ReconciliationResult {
	pool := Aggregate(receivedItems)
	firstPrices := firstUnitPrices(receivedItems)

	lines := make([]entities.VarianceLine, 0, len(poItems)+pool.Len())

	for _, item := range poItems {
		key := Normalize(item.ItemName)
		orderedQty := amount(item.Quantity)
		receivedQty := decimal.Zero
		status := entities.StatusMissing

		if entry, exists := pool.Get(key); exists {
			receivedQty = entry.Qty
			status = classify(receivedQty.Sub(orderedQty))
			pool.Claim(key)
		}

		orderedPrice := toFloat(amount(item.PricePerUnit))
		lines = append(lines, entities.VarianceLine{
			ItemCode:      item.ItemCode,
			ItemName:      item.ItemName,
			OrderedQty:    toFloat(orderedQty),
			ReceivedQty:   toFloat(receivedQty),
			Variance:      toFloat(receivedQty.Sub(orderedQty)),
			Status:        status,
			OrderedPrice:  &orderedPrice,
			ReceivedPrice: firstPrices[key],
		})
	}

	for _, entry := range pool.Remaining() {
		lines = append(lines, entities.VarianceLine{
			ItemName:    entry.Name,
			OrderedQty:  0,
			ReceivedQty: toFloat(entry.Qty),
			Variance:    toFloat(entry.Qty),
			Status:      entities.StatusExtra,
		})
	}

	return entities.ReconciliationResult{
		GeneratedAt: r.now(),
		Summary:     Tabulate(lines),
		Items:       lines,
	}
}

// classify maps a signed received-minus-ordered delta to a status
func classify(delta decimal.Decimal) entities.VarianceStatus {
	switch {
	case delta.Abs().LessThan(matchTolerance):
		return entities.StatusMatch
	case delta.IsNegative():
		return entities.StatusShort
	default:
		return entities.StatusOver
	}
}

// firstUnitPrices records, per normalized name, the unit price of the first
// received line carrying that name. The aggregate drops per-line prices, so
// this is read from the original lines.
func firstUnitPrices(items []entities.ReceivedLineItem) map[string]*float64 {
	prices := make(map[string]*float64, len(items))
	for _, item := range items {
		key := Normalize(item.ItemName)
		if key == "" {
			continue
		}
		if _, seen := prices[key]; seen {
			continue
		}
		prices[key] = optionalAmount(item.UnitPrice)
	}
	return prices
}
