package events

import (
	"github.com/vsinha/receiving/pkg/domain/entities"
)

const (
	ReceivingMatchedEvent = "receiving.matched"
	VarianceDetectedEvent = "variance.detected"
)

type ReceivingMatched struct {
	ReceivedRecordID string                   `json:"received_record_id"`
	PurchaseOrderID  string                   `json:"purchase_order_id"`
	Summary          entities.VarianceSummary `json:"summary"`
}

type VarianceDetected struct {
	ReceivedRecordID string                `json:"received_record_id"`
	PurchaseOrderID  string                `json:"purchase_order_id"`
	Line             entities.VarianceLine `json:"line"`
}

// Received records are the stream for both event types so a record's history reads in order.

func NewReceivingMatchedEvent(receivedRecordID, purchaseOrderID string, summary entities.VarianceSummary) Event {
	return NewEvent(ReceivingMatchedEvent, receivedRecordID, ReceivingMatched{
		ReceivedRecordID: receivedRecordID,
		PurchaseOrderID:  purchaseOrderID,
		Summary:          summary,
	})
}

func NewVarianceDetectedEvent(receivedRecordID, purchaseOrderID string, line entities.VarianceLine) Event {
	return NewEvent(VarianceDetectedEvent, receivedRecordID, VarianceDetected{
		ReceivedRecordID: receivedRecordID,
		PurchaseOrderID:  purchaseOrderID,
		Line:             line,
	})
}
