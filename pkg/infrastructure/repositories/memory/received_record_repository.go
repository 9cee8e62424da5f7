package memory

import (
	"context"
	"fmt"

	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/repositories"
)

// SaveReceivedRecord adds or replaces a received record
func (s *Store) SaveReceivedRecord(record *entities.ReceivedRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("received record id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.receivedRecords[record.ID]; !exists {
		s.receivedOrder = append(s.receivedOrder, record.ID)
	}
	s.receivedRecords[record.ID] = cloneReceivedRecord(*record)
	return nil
}

// GetReceivedRecord returns a copy of the received record with the given id
func (s *Store) GetReceivedRecord(ctx context.Context, id string) (*entities.ReceivedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.receivedRecords[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrReceivedRecordNotFound, id)
	}
	copied := cloneReceivedRecord(record)
	return &copied, nil
}

// ListPendingMatches returns pending records linked to a purchase order, in insertion order
func (s *Store) ListPendingMatches(ctx context.Context) ([]entities.PendingMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []entities.PendingMatch
	for _, id := range s.receivedOrder {
		record := s.receivedRecords[id]
		if record.Status != entities.Pending || record.MatchedPOID == "" {
			continue
		}
		pending = append(pending, entities.PendingMatch{
			ReceivedRecordID: record.ID,
			PurchaseOrderID:  record.MatchedPOID,
		})
	}
	return pending, nil
}

// SaveMatch stores the variance document and flips both status flags under one lock
func (s *Store) SaveMatch(ctx context.Context, commit repositories.MatchCommit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.receivedRecords[commit.ReceivedRecordID]
	if !exists {
		return fmt.Errorf("%w: %s", repositories.ErrReceivedRecordNotFound, commit.ReceivedRecordID)
	}
	po, exists := s.purchaseOrders[commit.PurchaseOrderID]
	if !exists {
		return fmt.Errorf("%w: %s", repositories.ErrPurchaseOrderNotFound, commit.PurchaseOrderID)
	}

	record.VarianceData = commit.VarianceData
	record.Status = entities.Matched
	record.MatchedPOID = commit.PurchaseOrderID
	s.receivedRecords[record.ID] = cloneReceivedRecord(record)

	po.Status = entities.Received
	s.purchaseOrders[po.ID] = po
	return nil
}
