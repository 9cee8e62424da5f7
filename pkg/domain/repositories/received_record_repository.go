package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/receiving/pkg/domain/entities"
)

// ErrReceivedRecordNotFound is returned when a received record id is unknown
var ErrReceivedRecordNotFound = errors.New("received record not found")

// ReceivedRecordRepository provides access to received records and their line items
type ReceivedRecordRepository interface {
	GetReceivedRecord(ctx context.Context, id string) (*entities.ReceivedRecord, error)

	// ListPendingMatches returns pending received records that already name
	// the purchase order they belong to.
	ListPendingMatches(ctx context.Context) ([]entities.PendingMatch, error)
}
