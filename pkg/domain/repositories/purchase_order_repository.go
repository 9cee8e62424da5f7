package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/receiving/pkg/domain/entities"
)

// ErrPurchaseOrderNotFound is returned when a purchase order id is unknown
var ErrPurchaseOrderNotFound = errors.New("purchase order not found")

// PurchaseOrderRepository provides access to purchase orders and their line items
type PurchaseOrderRepository interface {
	GetPurchaseOrder(ctx context.Context, id string) (*entities.PurchaseOrder, error)
}
