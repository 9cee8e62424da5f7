package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/receiving/pkg/domain/entities"
)

// AggregatedReceipt is the running total for one normalized item name
type AggregatedReceipt struct {
	Name  string
	Qty   decimal.Decimal
	Total decimal.Decimal
}

// ReceiptPool holds aggregated receipts keyed by normalized name. Iteration
// follows first-seen order. Entries are removed as purchase order lines claim
// them, so whatever remains is unclaimed.
type ReceiptPool struct {
	order   []string
	entries map[string]*AggregatedReceipt
}

func newReceiptPool(capacity int) *ReceiptPool {
	return &ReceiptPool{
		order:   make([]string, 0, capacity),
		entries: make(map[string]*AggregatedReceipt, capacity),
	}
}

// Aggregate groups received line items by normalized name, summing quantity
// and total value. Items whose name normalizes to "" are skipped.
func Aggregate(items []entities.ReceivedLineItem) *ReceiptPool {
	pool := newReceiptPool(len(items))

	for _, item := range items {
		key := Normalize(item.ItemName)
		if key == "" {
			continue
		}

		entry, exists := pool.entries[key]
		if !exists {
			entry = &AggregatedReceipt{Name: key, Qty: decimal.Zero, Total: decimal.Zero}
			pool.entries[key] = entry
			pool.order = append(pool.order, key)
		}
		entry.Qty = entry.Qty.Add(amount(item.Quantity))
		entry.Total = entry.Total.Add(amount(item.TotalPrice))
	}

	return pool
}

// Get returns the unclaimed receipt for a normalized name
func (p *ReceiptPool) Get(key string) (*AggregatedReceipt, bool) {
	entry, exists := p.entries[key]
	return entry, exists
}

// Claim removes a receipt so it cannot be matched again
func (p *ReceiptPool) Claim(key string) {
	delete(p.entries, key)
}

// Len returns the number of unclaimed receipts
func (p *ReceiptPool) Len() int {
	return len(p.entries)
}

// Remaining returns unclaimed receipts in first-seen order
func (p *ReceiptPool) Remaining() []*AggregatedReceipt {
	remaining := make([]*AggregatedReceipt, 0, len(p.entries))
	for _, key := range p.order {
		if entry, exists := p.entries[key]; exists {
			remaining = append(remaining, entry)
		}
	}
	return remaining
}
