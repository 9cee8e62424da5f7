package entities

import (
	"fmt"
	"strings"
)

// PurchaseOrderStatus represents the lifecycle state of a purchase order
type PurchaseOrderStatus int

const (
	Ordered PurchaseOrderStatus = iota
	Received
	Cancelled
)

// String method for PurchaseOrderStatus enum
func (s PurchaseOrderStatus) String() string {
	switch s {
	case Ordered:
		return "ordered"
	case Received:
		return "received"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ParsePurchaseOrderStatus converts a stored status string back to the enum
func ParsePurchaseOrderStatus(s string) (PurchaseOrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ordered":
		return Ordered, nil
	case "received":
		return Received, nil
	case "cancelled":
		return Cancelled, nil
	default:
		return Ordered, fmt.Errorf("invalid purchase order status: %s (expected: ordered, received, or cancelled)", s)
	}
}

// PurchaseOrder represents goods ordered from a supplier
type PurchaseOrder struct {
	ID           string
	PONumber     string
	SupplierName string
	Status       PurchaseOrderStatus
	Items        []PurchaseOrderLineItem
}

// NewPurchaseOrder creates a validated PurchaseOrder
func NewPurchaseOrder(id, poNumber, supplierName string, items []PurchaseOrderLineItem) (*PurchaseOrder, error) {
	if id == "" {
		return nil, fmt.Errorf("purchase order id cannot be empty")
	}
	if poNumber == "" {
		return nil, fmt.Errorf("po number cannot be empty")
	}

	return &PurchaseOrder{
		ID:           id,
		PONumber:     poNumber,
		SupplierName: supplierName,
		Status:       Ordered,
		Items:        items,
	}, nil
}

// Descriptor returns the summary stored alongside a variance report
func (po *PurchaseOrder) Descriptor() PODescriptor {
	return PODescriptor{
		ID:           po.ID,
		PONumber:     po.PONumber,
		SupplierName: po.SupplierName,
	}
}

// PODescriptor identifies the purchase order a received record was matched to
type PODescriptor struct {
	ID           string `json:"id"`
	PONumber     string `json:"po_number"`
	SupplierName string `json:"supplier_name,omitempty"`
}
