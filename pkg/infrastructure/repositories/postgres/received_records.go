package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/repositories"
)

// GetReceivedRecord loads a received record, its lines and its stored variance document
func (s *Store) GetReceivedRecord(ctx context.Context, id string) (*entities.ReceivedRecord, error) {
	var (
		record      entities.ReceivedRecord
		status      string
		matchedPOID *string
		rawVariance []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, supplier, invoice_number, status, matched_po_id, variance_data
		FROM received_records
		WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.Supplier, &record.InvoiceNumber, &status, &matchedPOID, &rawVariance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", repositories.ErrReceivedRecordNotFound, id)
		}
		return nil, fmt.Errorf("fetch received record %s: %w", id, err)
	}

	record.Status, err = entities.ParseReceivedStatus(status)
	if err != nil {
		return nil, fmt.Errorf("received record %s: %w", id, err)
	}
	if matchedPOID != nil {
		record.MatchedPOID = *matchedPOID
	}
	if len(rawVariance) > 0 {
		if err := json.Unmarshal(rawVariance, &record.VarianceData); err != nil {
			return nil, fmt.Errorf("decode variance data of received record %s: %w", id, err)
		}
	}

	rows, err := s.pool.Query(ctx, `
		SELECT item_name, quantity, unit_price, total_price
		FROM received_items
		WHERE received_id = $1
		ORDER BY line_no`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch received record %s lines: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entities.ReceivedLineItem
		if err := rows.Scan(&item.ItemName, &item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan received record %s line: %w", id, err)
		}
		record.Items = append(record.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read received record %s lines: %w", id, err)
	}

	return &record, nil
}

// ListPendingMatches returns pending records that already name their purchase order
func (s *Store) ListPendingMatches(ctx context.Context) ([]entities.PendingMatch, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, matched_po_id
		FROM received_records
		WHERE status = 'pending' AND matched_po_id IS NOT NULL
		ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending matches: %w", err)
	}
	defer rows.Close()

	var pending []entities.PendingMatch
	for rows.Next() {
		var match entities.PendingMatch
		if err := rows.Scan(&match.ReceivedRecordID, &match.PurchaseOrderID); err != nil {
			return nil, fmt.Errorf("scan pending match: %w", err)
		}
		pending = append(pending, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read pending matches: %w", err)
	}

	return pending, nil
}

// SaveReceivedRecord upserts a received record and replaces its lines
func (s *Store) SaveReceivedRecord(ctx context.Context, record *entities.ReceivedRecord) error {
	rawVariance, err := encodeVariance(record.VarianceData)
	if err != nil {
		return err
	}

	var matchedPOID *string
	if record.MatchedPOID != "" {
		matchedPOID = &record.MatchedPOID
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO received_records (id, supplier, invoice_number, status, matched_po_id, variance_data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET supplier = EXCLUDED.supplier,
		    invoice_number = EXCLUDED.invoice_number,
		    status = EXCLUDED.status,
		    matched_po_id = EXCLUDED.matched_po_id,
		    variance_data = EXCLUDED.variance_data,
		    updated_at = now()`,
		record.ID, record.Supplier, record.InvoiceNumber, record.Status.String(), matchedPOID, rawVariance,
	); err != nil {
		return fmt.Errorf("upsert received record %s: %w", record.ID, err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM received_items WHERE received_id = $1", record.ID); err != nil {
		return fmt.Errorf("clear received record %s lines: %w", record.ID, err)
	}

	for i, item := range record.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO received_items (received_id, line_no, item_name, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			record.ID, i+1, item.ItemName, item.Quantity, item.UnitPrice, item.TotalPrice,
		); err != nil {
			return fmt.Errorf("insert received line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit received record: %w", err)
	}
	return nil
}

// SaveMatch writes the variance document and both status flags in one transaction
func (s *Store) SaveMatch(ctx context.Context, commit repositories.MatchCommit) error {
	rawVariance, err := encodeVariance(commit.VarianceData)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Purchase order first, so an unknown id is not reported as a foreign key violation.
	tag, err := tx.Exec(ctx,
		"UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1",
		commit.PurchaseOrderID, entities.Received.String(),
	)
	if err != nil {
		return fmt.Errorf("update purchase order %s: %w", commit.PurchaseOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", repositories.ErrPurchaseOrderNotFound, commit.PurchaseOrderID)
	}

	tag, err = tx.Exec(ctx, `
		UPDATE received_records
		SET variance_data = $2, status = $3, matched_po_id = $4, updated_at = now()
		WHERE id = $1`,
		commit.ReceivedRecordID, rawVariance, entities.Matched.String(), commit.PurchaseOrderID,
	)
	if err != nil {
		return fmt.Errorf("update received record %s: %w", commit.ReceivedRecordID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", repositories.ErrReceivedRecordNotFound, commit.ReceivedRecordID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit match: %w", err)
	}
	return nil
}

func encodeVariance(doc entities.VarianceDocument) ([]byte, error) {
	if doc == nil {
		return nil, nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode variance data: %w", err)
	}
	return raw, nil
}
