package elevate

import (
	"context"
	"errors"
	"fmt"

	"github.com/tendant/simple-elevate/pkg/identity"
	"github.com/tendant/simple-elevate/pkg/params"
	"github.com/tendant/simple-elevate/pkg/session"
)

const (
	// LogStatementParameter is the logging-verbosity parameter the
	// service snapshots and forces during elevation
	LogStatementParameter = "log_statement"

	// logAllValue forces logging of every statement while elevated
	logAllValue = "all"
)

// The two policy switches read by the command gate. Settable only by a
// privileged configuration reload; default false.
const (
	BlockAlterSystemParameter = "elevate.block_alter_system"
	BlockCopyProgramParameter = "elevate.block_copy_program"
)

// DefinePolicyParameters registers the two policy switches on a store
func DefinePolicyParameters(store *params.InMemoryStore) {
	store.DefineBool(BlockAlterSystemParameter, "Block ALTER SYSTEM commands", false, params.PrivilegeReload)
	store.DefineBool(BlockCopyProgramParameter, "Blocks COPY PROGRAM commands", false, params.PrivilegeReload)
}

// State is the single elevation slot of a session. The slot is active
// exactly when an original identity is recorded, and a saved log policy
// is held exactly while the slot is active.
type State struct {
	originalIdentity *identity.Identity
	savedLogPolicy   *string
}

// Active reports whether an elevation is outstanding
func (s *State) Active() bool {
	return s.originalIdentity != nil
}

// Service drives privilege transitions for one session
type Service struct {
	registry identity.Registry
	params   params.Store
	session  *session.Session
	auditor  Auditor
	logParam string
	state    State
}

// Option configures a Service
type Option func(*Service)

// WithAuditor replaces the default slog-backed auditor
func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithLogParameter overrides the name of the logging-verbosity parameter
func WithLogParameter(name string) Option {
	return func(s *Service) {
		s.logParam = name
	}
}

// NewService creates an elevation service bound to one session
func NewService(registry identity.Registry, store params.Store, sess *session.Session, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		params:   store,
		session:  sess,
		auditor:  NewSlogAuditor(nil),
		logParam: LogStatementParameter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Active reports whether an elevation is outstanding
func (s *Service) Active() bool {
	return s.state.Active()
}

// OriginalIdentity returns the identity the session will revert to, if
// an elevation is outstanding
func (s *Service) OriginalIdentity() (identity.Identity, bool) {
	if !s.state.Active() {
		return identity.Identity{}, false
	}
	return *s.state.originalIdentity, true
}

// Session returns the session this service drives
func (s *Service) Session() *session.Session {
	return s.session
}

// Elevate switches the session's effective identity to the named role,
// forcing statement logging on for the duration. Exactly one elevation
// may be outstanding; callers must Revert before elevating again.
func (s *Service) Elevate(ctx context.Context, name string) error {
	if s.state.Active() {
		return ErrAlreadyElevated
	}

	target, err := s.registry.Lookup(ctx, name)
	if err != nil {
		if errors.Is(err, identity.ErrIdentityNotFound) {
			return fmt.Errorf("%w: %q", ErrUnknownIdentity, name)
		}
		return fmt.Errorf("failed to look up role %q: %w", name, err)
	}

	origin := s.session.Effective()
	originSuperuser, err := s.registry.Superuser(ctx, origin.ID)
	if err != nil {
		return fmt.Errorf("failed to check privilege of role %q: %w", origin.Name, err)
	}

	saved, err := s.params.Get(s.logParam, params.ScopeSession)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.logParam, err)
	}

	// Force logging of everything, at least initially. Everything the
	// session does under the elevated identity must be auditable even
	// if the session had logging turned off.
	if err := s.params.Set(s.logParam, logAllValue, params.PrivilegeSuperuser, params.ScopeSession); err != nil {
		return fmt.Errorf("failed to force %s: %w", s.logParam, err)
	}

	s.state.originalIdentity = &origin
	s.state.savedLogPolicy = &saved

	s.auditor.Transition(origin, originSuperuser, target, target.Superuser)

	// The actual privilege change happens last: a failure in any step
	// above leaves the session untouched.
	s.session.SetEffective(target, target.Superuser)
	return nil
}

// Revert restores the session to the identity recorded at Elevate and
// puts the logging configuration back to its pre-elevation value.
func (s *Service) Revert(ctx context.Context) error {
	if !s.state.Active() {
		return ErrNotElevated
	}

	restored := *s.state.originalIdentity

	// Privilege may have changed out-of-band while elevated; re-derive
	// the flag rather than trusting the value cached at Elevate.
	restoredSuperuser, err := s.registry.Superuser(ctx, restored.ID)
	if err != nil {
		return fmt.Errorf("failed to check privilege of role %q: %w", restored.Name, err)
	}
	restored.Superuser = restoredSuperuser

	origin := s.session.Effective()
	originSuperuser := s.session.EffectiveSuperuser()
	saved := *s.state.savedLogPolicy

	// Clear the slot before touching config so a failed restore cannot
	// leave the session stuck elevated.
	s.state.originalIdentity = nil
	s.state.savedLogPolicy = nil

	if err := s.params.Set(s.logParam, saved, params.PrivilegeSuperuser, params.ScopeSession); err != nil {
		return fmt.Errorf("failed to restore %s: %w", s.logParam, err)
	}

	s.auditor.Transition(origin, originSuperuser, restored, restoredSuperuser)

	s.session.SetEffective(restored, restoredSuperuser)
	return nil
}

// SetUser is the legacy two-arity entry point: one non-nil argument
// elevates to the named role, zero arguments or a single nil argument
// reverts. Returns "OK" on success.
func (s *Service) SetUser(ctx context.Context, args ...*string) (string, error) {
	switch {
	case len(args) == 1 && args[0] != nil:
		if err := s.Elevate(ctx, *args[0]); err != nil {
			return "", err
		}
	case len(args) == 0 || (len(args) == 1 && args[0] == nil):
		if err := s.Revert(ctx); err != nil {
			return "", err
		}
	default:
		// Should not happen with the two supported call shapes.
		return "", ErrInvalidInvocation
	}
	return "OK", nil
}
