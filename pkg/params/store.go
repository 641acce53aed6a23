package params

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// Common errors
var (
	ErrUnknownParameter      = errors.New("unrecognized configuration parameter")
	ErrInsufficientPrivilege = errors.New("insufficient privilege to set parameter")
	ErrInvalidBool           = errors.New("parameter requires a boolean value")
)

// Scope selects which layer of a parameter is read or written
type Scope int

const (
	// ScopeDefault is the server-wide default value
	ScopeDefault Scope = iota
	// ScopeSession is the per-session override; reads at session scope
	// return the override when present, the default otherwise
	ScopeSession
)

// Privilege is the privilege level a caller asserts when setting a parameter
type Privilege int

const (
	// PrivilegeUser is an ordinary session
	PrivilegeUser Privilege = iota
	// PrivilegeSuperuser is a superuser session
	PrivilegeSuperuser
	// PrivilegeReload marks parameters changeable only by a privileged
	// configuration reload, never by a session
	PrivilegeReload
)

// Store defines the interface for the configuration-parameter store
type Store interface {
	// Get returns the value of a parameter at the given scope
	Get(name string, scope Scope) (string, error)

	// Set writes a parameter at the given scope, checking the caller's
	// privilege against the parameter's required privilege
	Set(name, value string, priv Privilege, scope Scope) error

	// GetBool returns the effective session value of a boolean parameter
	GetBool(name string) (bool, error)
}

type param struct {
	description  string
	defaultValue string
	required     Privilege
	sessionValue *string
}

// InMemoryStore implements Store using in-memory storage
type InMemoryStore struct {
	mu     sync.RWMutex
	params map[string]*param
}

// NewInMemoryStore creates a new in-memory parameter store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		params: make(map[string]*param),
	}
}

// DefineString registers a string parameter with its default value and
// the privilege required to change it
func (s *InMemoryStore) DefineString(name, description, defaultValue string, required Privilege) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params[name] = &param{
		description:  description,
		defaultValue: defaultValue,
		required:     required,
	}
}

// DefineBool registers a boolean parameter
func (s *InMemoryStore) DefineBool(name, description string, defaultValue bool, required Privilege) {
	s.DefineString(name, description, strconv.FormatBool(defaultValue), required)
}

// Get returns the value of a parameter at the given scope
func (s *InMemoryStore) Get(name string, scope Scope) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.params[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	if scope == ScopeSession && p.sessionValue != nil {
		return *p.sessionValue, nil
	}
	return p.defaultValue, nil
}

// Set writes a parameter at the given scope
func (s *InMemoryStore) Set(name, value string, priv Privilege, scope Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.params[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	// Reload-only parameters cannot be set from a session at all.
	if p.required == PrivilegeReload {
		return fmt.Errorf("%w: %q can only be changed by reload", ErrInsufficientPrivilege, name)
	}
	if priv < p.required {
		return fmt.Errorf("%w: %q", ErrInsufficientPrivilege, name)
	}

	switch scope {
	case ScopeSession:
		v := value
		p.sessionValue = &v
	default:
		p.defaultValue = value
	}
	return nil
}

// GetBool returns the effective session value of a boolean parameter
func (s *InMemoryStore) GetBool(name string) (bool, error) {
	value, err := s.Get(name, ScopeSession)
	if err != nil {
		return false, err
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %q = %q", ErrInvalidBool, name, value)
	}
	return b, nil
}

// Reload applies new default values, as a privileged configuration
// reload would. This is the only path that changes reload-only
// parameters. Session overrides are left untouched.
func (s *InMemoryStore) Reload(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name := range values {
		if _, ok := s.params[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
		}
	}
	for name, value := range values {
		s.params[name].defaultValue = value
	}
	return nil
}

// ResetSession drops all session overrides, as at session end
func (s *InMemoryStore) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.params {
		p.sessionValue = nil
	}
}
