package elevate

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrAlreadyElevated is returned when Elevate is called while an
	// elevation is still outstanding
	ErrAlreadyElevated = errors.New("must revert previous elevation before elevating again")

	// ErrNotElevated is returned when Revert is called with no
	// elevation outstanding
	ErrNotElevated = errors.New("must elevate before reverting")

	// ErrUnknownIdentity is returned when the target role does not exist
	ErrUnknownIdentity = errors.New("role does not exist")

	// ErrInvalidInvocation is returned for a call shape that is neither
	// elevate nor revert
	ErrInvalidInvocation = errors.New("unexpected argument combination")
)

// PolicyKind identifies which policy switch vetoed a statement
type PolicyKind string

const (
	PolicyAlterSystem PolicyKind = "alter_system"
	PolicyCopyProgram PolicyKind = "copy_program"
)

// PolicyBlockedError is returned when the command gate vetoes a
// statement while elevation is active. It carries insufficient-privilege
// semantics so callers can tell "blocked by policy" apart from "not
// found" or "bad state".
type PolicyBlockedError struct {
	Kind PolicyKind
}

func (e PolicyBlockedError) Error() string {
	switch e.Kind {
	case PolicyAlterSystem:
		return "ALTER SYSTEM blocked by elevation policy"
	case PolicyCopyProgram:
		return "COPY PROGRAM blocked by elevation policy"
	}
	return fmt.Sprintf("statement blocked by elevation policy: %s", e.Kind)
}
