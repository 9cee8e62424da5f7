package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS purchase_orders (
	id            TEXT PRIMARY KEY,
	po_number     TEXT NOT NULL,
	supplier_name TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'ordered',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS purchase_order_items (
	po_id          TEXT NOT NULL REFERENCES purchase_orders(id) ON DELETE CASCADE,
	line_no        INT NOT NULL,
	item_code      TEXT,
	item_name      TEXT NOT NULL DEFAULT '',
	quantity       DOUBLE PRECISION,
	price_per_unit DOUBLE PRECISION,
	price_total    DOUBLE PRECISION,
	PRIMARY KEY (po_id, line_no)
);

CREATE TABLE IF NOT EXISTS received_records (
	id             TEXT PRIMARY KEY,
	supplier       TEXT NOT NULL DEFAULT '',
	invoice_number TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'pending',
	matched_po_id  TEXT REFERENCES purchase_orders(id),
	variance_data  JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS received_items (
	received_id TEXT NOT NULL REFERENCES received_records(id) ON DELETE CASCADE,
	line_no     INT NOT NULL,
	item_name   TEXT NOT NULL DEFAULT '',
	quantity    DOUBLE PRECISION,
	unit_price  DOUBLE PRECISION,
	total_price DOUBLE PRECISION,
	PRIMARY KEY (received_id, line_no)
);

CREATE INDEX IF NOT EXISTS received_records_pending_idx
	ON received_records (status) WHERE status = 'pending';
`

// Migrate creates the tables the store reads and writes
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
