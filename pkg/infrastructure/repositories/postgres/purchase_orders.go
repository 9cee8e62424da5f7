package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/repositories"
)

// GetPurchaseOrder loads a purchase order and its lines in line order
func (s *Store) GetPurchaseOrder(ctx context.Context, id string) (*entities.PurchaseOrder, error) {
	var (
		po     entities.PurchaseOrder
		status string
	)
	err := s.pool.QueryRow(ctx,
		"SELECT id, po_number, supplier_name, status FROM purchase_orders WHERE id = $1",
		id,
	).Scan(&po.ID, &po.PONumber, &po.SupplierName, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", repositories.ErrPurchaseOrderNotFound, id)
		}
		return nil, fmt.Errorf("fetch purchase order %s: %w", id, err)
	}

	po.Status, err = entities.ParsePurchaseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("purchase order %s: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT item_code, item_name, quantity, price_per_unit, price_total
		FROM purchase_order_items
		WHERE po_id = $1
		ORDER BY line_no`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch purchase order %s lines: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item entities.PurchaseOrderLineItem
			code *string
		)
		if err := rows.Scan(&code, &item.ItemName, &item.Quantity, &item.PricePerUnit, &item.PriceTotal); err != nil {
			return nil, fmt.Errorf("scan purchase order %s line: %w", id, err)
		}
		if code != nil {
			item.ItemCode = entities.Code(*code)
		}
		po.Items = append(po.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read purchase order %s lines: %w", id, err)
	}

	return &po, nil
}

// SavePurchaseOrder upserts a purchase order and replaces its lines
func (s *Store) SavePurchaseOrder(ctx context.Context, po *entities.PurchaseOrder) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO purchase_orders (id, po_number, supplier_name, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET po_number = EXCLUDED.po_number,
		    supplier_name = EXCLUDED.supplier_name,
		    status = EXCLUDED.status,
		    updated_at = now()`,
		po.ID, po.PONumber, po.SupplierName, po.Status.String(),
	); err != nil {
		return fmt.Errorf("upsert purchase order %s: %w", po.ID, err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM purchase_order_items WHERE po_id = $1", po.ID); err != nil {
		return fmt.Errorf("clear purchase order %s lines: %w", po.ID, err)
	}

	for i, item := range po.Items {
		var code *string
		if item.ItemCode != nil {
			c := string(*item.ItemCode)
			code = &c
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO purchase_order_items
			            (po_id, line_no, item_code, item_name, quantity, price_per_unit, price_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			po.ID, i+1, code, item.ItemName, item.Quantity, item.PricePerUnit, item.PriceTotal,
		); err != nil {
			return fmt.Errorf("insert purchase order line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit purchase order: %w", err)
	}
	return nil
}
