package repositories

import (
	"context"

	"github.com/vsinha/receiving/pkg/domain/entities"
)

// MatchCommit is everything written when a received record is matched
type MatchCommit struct {
	ReceivedRecordID string
	PurchaseOrderID  string
	VarianceData     entities.VarianceDocument
}

// MatchRecorder persists a reconciliation outcome.
//
// SaveMatch must be atomic: either the variance document is stored, the
// received record is marked matched and the purchase order is marked
// received, or nothing changes. Concurrent saves for the same received
// record resolve as last write wins.
type MatchRecorder interface {
	SaveMatch(ctx context.Context, commit MatchCommit) error
}
