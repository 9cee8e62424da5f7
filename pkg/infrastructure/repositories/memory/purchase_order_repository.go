package memory

import (
	"context"
	"fmt"

	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/repositories"
)

// SavePurchaseOrder adds or replaces a purchase order
func (s *Store) SavePurchaseOrder(po *entities.PurchaseOrder) error {
	if po == nil || po.ID == "" {
		return fmt.Errorf("purchase order id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchaseOrders[po.ID] = clonePurchaseOrder(*po)
	return nil
}

// GetPurchaseOrder returns a copy of the purchase order with the given id
func (s *Store) GetPurchaseOrder(ctx context.Context, id string) (*entities.PurchaseOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	po, exists := s.purchaseOrders[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrPurchaseOrderNotFound, id)
	}
	copied := clonePurchaseOrder(po)
	return &copied, nil
}
