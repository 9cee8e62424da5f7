package entities

import (
	"fmt"
	"strings"
)

// ReceivedStatus represents whether a received record has been reconciled
type ReceivedStatus int

const (
	Pending ReceivedStatus = iota
	Matched
)

// String method for ReceivedStatus enum
func (s ReceivedStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// ParseReceivedStatus converts a stored status string back to the enum
func ParseReceivedStatus(s string) (ReceivedStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return Pending, nil
	case "matched":
		return Matched, nil
	default:
		return Pending, fmt.Errorf("invalid received status: %s (expected: pending or matched)", s)
	}
}

// ReceivedRecord represents one delivery or invoice event
type ReceivedRecord struct {
	ID            string
	Supplier      string
	InvoiceNumber string
	Status        ReceivedStatus
	MatchedPOID   string
	Items         []ReceivedLineItem
	VarianceData  VarianceDocument
}

// NewReceivedRecord creates a validated ReceivedRecord
func NewReceivedRecord(id, supplier, invoiceNumber string, items []ReceivedLineItem) (*ReceivedRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("received record id cannot be empty")
	}

	return &ReceivedRecord{
		ID:            id,
		Supplier:      supplier,
		InvoiceNumber: invoiceNumber,
		Status:        Pending,
		Items:         items,
	}, nil
}

// PendingMatch links a pending received record to the purchase order it should be matched against
type PendingMatch struct {
	ReceivedRecordID string
	PurchaseOrderID  string
}
