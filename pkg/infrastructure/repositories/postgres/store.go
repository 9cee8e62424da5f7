// Package postgres stores purchase orders and received records in PostgreSQL
// through a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vsinha/receiving/pkg/domain/repositories"
)

// Store implements the receiving repositories on PostgreSQL
type Store struct {
	pool *pgxpool.Pool
}

// Verify interface compliance
var (
	_ repositories.PurchaseOrderRepository  = (*Store)(nil)
	_ repositories.ReceivedRecordRepository = (*Store)(nil)
	_ repositories.MatchRecorder            = (*Store)(nil)
)

// Open connects to databaseURL and verifies the connection
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url cannot be empty")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// NewStore wraps an existing pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the pool
func (s *Store) Close() {
	s.pool.Close()
}
