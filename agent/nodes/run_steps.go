package orchestratornode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	"github.com/tanpawarit/agentic-automator/pkg/metrics"
)

const toolFailurePrefix = "Tool execution failed: "

// Selector maps a step description to the tool that runs it.
type Selector func(description string) contractx.ToolName

// RunSteps executes the plan in order. A tool error, panic or missing
// registration becomes an error payload on that step and the loop continues.
func RunSteps(ctx context.Context, in *GraphState, tools contractx.ToolRegistry, selectTool Selector) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Intermediate = make([]contractx.IntermediateResult, 0, len(in.Plan.Steps))
	in.Timeline = make([]contractx.TimelineEntry, 0, len(in.Plan.Steps))

	for _, step := range in.Plan.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := selectTool(step.Description)
		logger := log.Ctx(ctx).With().Int("step_id", step.ID).Str("tool", string(name)).Logger()
		logger.Info().Str("description", step.Description).Msg("executing step")

		start := time.Now()
		result, err := runTool(ctx, tools, name, step.Description)
		elapsed := time.Since(start)

		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeError
			logger.Error().Err(err).Msg("tool failed")
			result = contractx.ErrorResult("%s%s", toolFailurePrefix, err.Error())
		} else if msg, failed := result.Err(); failed {
			outcome = metrics.OutcomeError
			logger.Warn().Str("error", msg).Msg("tool reported an error payload")
		}
		metrics.ToolRuns.WithLabelValues(string(name), outcome).Inc()
		metrics.StepDuration.WithLabelValues(string(name)).Observe(elapsed.Seconds())
		logger.Debug().Dur("duration", elapsed).Msg("step finished")

		in.Timeline = append(in.Timeline, contractx.TimelineEntry{
			StepID:   step.ID,
			Tool:     name,
			Duration: elapsed.Seconds(),
		})
		in.Intermediate = append(in.Intermediate, contractx.IntermediateResult{
			Step:   step,
			Result: result,
		})
	}

	return in, nil
}

func runTool(ctx context.Context, tools contractx.ToolRegistry, name contractx.ToolName, input string) (result contractx.ToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%v", r)
		}
	}()

	tool, ok := tools.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrToolUnknown, name)
	}

	result, err = tool.Run(ctx, input)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = contractx.ToolResult{}
	}
	return result, nil
}
