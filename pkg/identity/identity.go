package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrIdentityNotFound is returned when a role name or ID does not resolve
var ErrIdentityNotFound = errors.New("identity not found")

// Identity represents a nameable role with an associated privilege flag
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Superuser bool      `json:"superuser"`
}

// Registry defines the interface for identity lookup
type Registry interface {
	// Lookup resolves a role by name
	Lookup(ctx context.Context, name string) (Identity, error)

	// Superuser reports the current privilege flag of a role.
	// Callers that restore an identity must use this rather than a
	// cached flag, since privilege can change out-of-band.
	Superuser(ctx context.Context, id uuid.UUID) (bool, error)
}
