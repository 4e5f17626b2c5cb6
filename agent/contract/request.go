package contract

import (
	"fmt"
	"strings"
)

// Validate rejects blank goals and step budgets outside [MinSteps, MaxSteps].
func (r PlanRequest) Validate() error {
	if strings.TrimSpace(r.Goal) == "" {
		return fmt.Errorf("%w: goal is required", ErrValidation)
	}
	if r.MaxSteps < MinSteps || r.MaxSteps > MaxSteps {
		return fmt.Errorf("%w: max_steps must be between %d and %d, got %d", ErrValidation, MinSteps, MaxSteps, r.MaxSteps)
	}
	return nil
}
