package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRegistry implements Registry using in-memory storage
type InMemoryRegistry struct {
	mu     sync.RWMutex
	byName map[string]Identity
	byID   map[uuid.UUID]string
}

// NewInMemoryRegistry creates a new in-memory identity registry
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		byName: make(map[string]Identity),
		byID:   make(map[uuid.UUID]string),
	}
}

// AddIdentity registers a role and returns the created identity
func (r *InMemoryRegistry) AddIdentity(name string, superuser bool) Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[name]; ok {
		existing.Superuser = superuser
		r.byName[name] = existing
		return existing
	}

	id := Identity{
		ID:        uuid.New(),
		Name:      name,
		Superuser: superuser,
	}
	r.byName[name] = id
	r.byID[id.ID] = name
	return id
}

// SetSuperuser changes the privilege flag of an existing role
func (r *InMemoryRegistry) SetSuperuser(name string, superuser bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byName[name]
	if !ok {
		return ErrIdentityNotFound
	}
	id.Superuser = superuser
	r.byName[name] = id
	return nil
}

// Lookup resolves a role by name
func (r *InMemoryRegistry) Lookup(ctx context.Context, name string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return Identity{}, ErrIdentityNotFound
	}
	return id, nil
}

// Superuser reports the current privilege flag of a role
func (r *InMemoryRegistry) Superuser(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.byID[id]
	if !ok {
		return false, ErrIdentityNotFound
	}
	return r.byName[name].Superuser, nil
}
