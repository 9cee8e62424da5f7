package dto

import (
	"github.com/vsinha/receiving/pkg/domain/entities"
)

// MatchOutcome contains everything produced by matching one received record
type MatchOutcome struct {
	ReceivedRecordID string
	PurchaseOrder    entities.PODescriptor
	Result           entities.ReconciliationResult
	Document         entities.VarianceDocument
}

// HasVariance reports whether any line differs from the order
func (o *MatchOutcome) HasVariance() bool {
	return o.Result.Summary.Matched != o.Result.Summary.Total()
}

// PendingRun summarises a pass over pending received records
type PendingRun struct {
	Attempted int
	Matched   int
	Failures  []MatchFailure
}

// MatchFailure records a pending match that could not be completed
type MatchFailure struct {
	ReceivedRecordID string
	PurchaseOrderID  string
	Err              error
}
