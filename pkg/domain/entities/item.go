package entities

// ItemCode represents a supplier or catalogue code for an ordered item
type ItemCode string

// PurchaseOrderLineItem represents one ordered product on a purchase order.
// Numeric fields are optional because records come from loosely typed storage.
type PurchaseOrderLineItem struct {
	ItemCode     *ItemCode `json:"item_code"`
	ItemName     string    `json:"item_name"`
	Quantity     *float64  `json:"quantity"`
	PricePerUnit *float64  `json:"price_per_unit"`
	PriceTotal   *float64  `json:"price_total"`
}

// ReceivedLineItem represents one line on a delivery document or invoice
type ReceivedLineItem struct {
	ItemName   string   `json:"item_name"`
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
	TotalPrice *float64 `json:"total_price"`
}

// Float returns a pointer to v, for populating optional numeric fields
func Float(v float64) *float64 {
	return &v
}

// Code returns a pointer to an ItemCode, or nil for an empty code
func Code(s string) *ItemCode {
	if s == "" {
		return nil
	}
	c := ItemCode(s)
	return &c
}
