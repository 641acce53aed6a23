package elevate

import (
	"fmt"
	"log/slog"

	"github.com/tendant/simple-elevate/pkg/identity"
)

// Auditor receives exactly one entry per privilege transition
type Auditor interface {
	Transition(origin identity.Identity, originSuperuser bool, target identity.Identity, targetSuperuser bool)
}

// TransitionLine formats the audit line for one transition
func TransitionLine(origin identity.Identity, originSuperuser bool, target identity.Identity, targetSuperuser bool) string {
	return fmt.Sprintf("%sRole %s transitioning to %sRole %s",
		superuserLabel(originSuperuser), origin.Name,
		superuserLabel(targetSuperuser), target.Name)
}

func superuserLabel(superuser bool) string {
	if superuser {
		return "Superuser "
	}
	return ""
}

// SlogAuditor writes transition lines to a slog.Logger
type SlogAuditor struct {
	logger *slog.Logger
}

// NewSlogAuditor creates an auditor backed by the given logger, or
// slog.Default() when nil
func NewSlogAuditor(logger *slog.Logger) *SlogAuditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAuditor{
		logger: logger,
	}
}

// Transition logs one audit line
func (a *SlogAuditor) Transition(origin identity.Identity, originSuperuser bool, target identity.Identity, targetSuperuser bool) {
	a.logger.Info(TransitionLine(origin, originSuperuser, target, targetSuperuser))
}
