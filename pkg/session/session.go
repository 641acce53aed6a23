package session

import (
	"github.com/tendant/simple-elevate/pkg/identity"
)

// Session tracks the effective identity of one database session. A
// session serves exactly one sequential control stream; calls are never
// concurrent, so no locking is done here.
type Session struct {
	current   identity.Identity
	superuser bool
}

// New creates a session with its initial effective identity
func New(initial identity.Identity) *Session {
	return &Session{
		current:   initial,
		superuser: initial.Superuser,
	}
}

// Effective returns the identity the session currently runs as
func (s *Session) Effective() identity.Identity {
	return s.current
}

// EffectiveSuperuser returns the privilege flag the session currently
// carries
func (s *Session) EffectiveSuperuser() bool {
	return s.superuser
}

// SetEffective switches the identity and privilege flag used for
// subsequent authorization checks
func (s *Session) SetEffective(id identity.Identity, superuser bool) {
	s.current = id
	s.superuser = superuser
}
