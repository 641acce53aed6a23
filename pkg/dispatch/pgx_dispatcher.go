package dispatch

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDispatcher is a base dispatcher that executes statements on a
// PostgreSQL connection pool
type PgxDispatcher struct {
	pool *pgxpool.Pool
}

// NewPgxDispatcher creates a new pgx-backed base dispatcher
func NewPgxDispatcher(pool *pgxpool.Pool) *PgxDispatcher {
	return &PgxDispatcher{
		pool: pool,
	}
}

// Dispatch executes the statement text
func (d *PgxDispatcher) Dispatch(ctx context.Context, stmt Statement) error {
	_, err := d.pool.Exec(ctx, stmt.SQL())
	if err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}
