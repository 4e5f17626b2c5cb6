package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

func PlanGoal(ctx context.Context, in *GraphState, planner contractx.Planner) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	plan, err := planner.Plan(ctx, in.Req.Goal, in.Req.MaxSteps)
	if err != nil {
		return nil, err
	}
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("%w: planner returned an empty plan", contractx.ErrModelInvoke)
	}

	in.Plan = plan
	return in, nil
}
