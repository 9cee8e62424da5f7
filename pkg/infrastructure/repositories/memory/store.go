package memory

import (
	"sync"

	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/repositories"
)

// Store provides in-memory purchase order and received record storage.
// A single lock covers both collections so SaveMatch is all-or-nothing.
type Store struct {
	mu              sync.RWMutex
	purchaseOrders  map[string]entities.PurchaseOrder
	receivedRecords map[string]entities.ReceivedRecord
	receivedOrder   []string
}

// NewStore creates a new in-memory store
func NewStore() *Store {
	return &Store{
		purchaseOrders:  make(map[string]entities.PurchaseOrder),
		receivedRecords: make(map[string]entities.ReceivedRecord),
	}
}

// Verify interface compliance
var (
	_ repositories.PurchaseOrderRepository  = (*Store)(nil)
	_ repositories.ReceivedRecordRepository = (*Store)(nil)
	_ repositories.MatchRecorder            = (*Store)(nil)
)

func clonePurchaseOrder(po entities.PurchaseOrder) entities.PurchaseOrder {
	po.Items = append([]entities.PurchaseOrderLineItem(nil), po.Items...)
	return po
}

func cloneReceivedRecord(record entities.ReceivedRecord) entities.ReceivedRecord {
	record.Items = append([]entities.ReceivedLineItem(nil), record.Items...)
	if record.VarianceData != nil {
		doc := make(entities.VarianceDocument, len(record.VarianceData))
		for key, value := range record.VarianceData {
			doc[key] = value
		}
		record.VarianceData = doc
	}
	return record
}
