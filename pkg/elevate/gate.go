package elevate

import (
	"context"
	"fmt"

	"github.com/tendant/simple-elevate/pkg/dispatch"
	"github.com/tendant/simple-elevate/pkg/params"
)

// Gate vetoes dangerous utility statements while an elevation is
// active. It implements dispatch.Interceptor and is installed at the
// front of the session's dispatch chain.
type Gate struct {
	service *Service
	params  params.Store
}

// NewGate creates a command gate for the given elevation service
func NewGate(service *Service, store params.Store) *Gate {
	return &Gate{
		service: service,
		params:  store,
	}
}

// Intercept classifies the statement and rejects it when the matching
// policy switch is on. Statements outside the two recognized categories
// are forwarded unconditionally, as is everything while no elevation is
// active.
func (g *Gate) Intercept(ctx context.Context, stmt dispatch.Statement, next dispatch.Dispatcher) error {
	if !g.service.Active() {
		return next.Dispatch(ctx, stmt)
	}

	switch st := stmt.(type) {
	case dispatch.AlterSystem:
		blocked, err := g.params.GetBool(BlockAlterSystemParameter)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", BlockAlterSystemParameter, err)
		}
		if blocked {
			return PolicyBlockedError{Kind: PolicyAlterSystem}
		}
	case dispatch.Copy:
		if st.Program {
			blocked, err := g.params.GetBool(BlockCopyProgramParameter)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", BlockCopyProgramParameter, err)
			}
			if blocked {
				return PolicyBlockedError{Kind: PolicyCopyProgram}
			}
		}
	}

	return next.Dispatch(ctx, stmt)
}
