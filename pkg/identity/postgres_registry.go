package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRegistry implements Registry using PostgreSQL
type PostgresRegistry struct {
	pool *pgxpool.Pool
}

// NewPostgresRegistry creates a new PostgreSQL identity registry
func NewPostgresRegistry(pool *pgxpool.Pool) *PostgresRegistry {
	return &PostgresRegistry{
		pool: pool,
	}
}

// Lookup resolves a role by name
func (r *PostgresRegistry) Lookup(ctx context.Context, name string) (Identity, error) {
	query := `
		SELECT id, name, superuser
		FROM roles
		WHERE name = $1 AND deleted_at IS NULL
	`

	var id Identity
	err := r.pool.QueryRow(ctx, query, name).Scan(&id.ID, &id.Name, &id.Superuser)
	if errors.Is(err, pgx.ErrNoRows) {
		return Identity{}, ErrIdentityNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("failed to look up role %q: %w", name, err)
	}
	return id, nil
}

// Superuser reports the current privilege flag of a role
func (r *PostgresRegistry) Superuser(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		SELECT superuser
		FROM roles
		WHERE id = $1 AND deleted_at IS NULL
	`

	var superuser bool
	err := r.pool.QueryRow(ctx, query, id).Scan(&superuser)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrIdentityNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to check privilege of role %s: %w", id, err)
	}
	return superuser, nil
}
