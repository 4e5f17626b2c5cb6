package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/agentic-automator/agent/analytics"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

func FinalizeReport(ctx context.Context, in *GraphState) (contractx.ExecutionReport, error) {
	if in == nil {
		return contractx.ExecutionReport{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if len(in.Intermediate) != len(in.Plan.Steps) || len(in.Timeline) != len(in.Plan.Steps) {
		return contractx.ExecutionReport{}, fmt.Errorf("%w: %d steps produced %d results and %d timeline entries",
			contractx.ErrToolFailed, len(in.Plan.Steps), len(in.Intermediate), len(in.Timeline))
	}

	log.Ctx(ctx).Info().
		Int("steps", len(in.Plan.Steps)).
		Object("timeline", analytics.FromTimeline(in.Timeline)).
		Msg("execution finished")

	return contractx.ExecutionReport{
		Plan:         in.Plan.Steps,
		Intermediate: in.Intermediate,
		FinalSummary: in.FinalSummary,
		Timeline:     in.Timeline,
	}, nil
}
