package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	nodex "github.com/tanpawarit/agentic-automator/agent/nodes"
	"github.com/tanpawarit/agentic-automator/agent/tool"
	"github.com/tanpawarit/agentic-automator/pkg/metrics"
)

type Option func(*Orchestrator)

// WithSelector replaces the keyword tool selector.
func WithSelector(sel nodex.Selector) Option {
	return func(o *Orchestrator) {
		if sel != nil {
			o.selectTool = sel
		}
	}
}

// Orchestrator plans a goal, runs every step through its tool and merges the
// outputs into a report. Shared dependencies are read-only, so one value
// serves concurrent requests.
type Orchestrator struct {
	planner contractx.Planner
	tools   contractx.ToolRegistry
	llm     contractx.Completer

	selectTool  nodex.Selector
	graphRunner compose.Runnable[contractx.PlanRequest, contractx.ExecutionReport]
}

func New(
	planner contractx.Planner,
	tools contractx.ToolRegistry,
	llm contractx.Completer,
	opts ...Option,
) (*Orchestrator, error) {
	if planner == nil {
		return nil, errors.New("planner is required")
	}
	if tools == nil {
		return nil, errors.New("tool registry is required")
	}
	if llm == nil {
		return nil, errors.New("completer is required")
	}

	o := &Orchestrator{
		planner:    planner,
		tools:      tools,
		llm:        llm,
		selectTool: tool.Select,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	graphRunner, err := o.compileExecuteGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Plan returns the plan for goal without executing it.
func (o *Orchestrator) Plan(ctx context.Context, goal string, maxSteps int) (contractx.Plan, error) {
	return o.planner.Plan(ctx, goal, maxSteps)
}

func (o *Orchestrator) Execute(ctx context.Context, goal string, maxSteps int) (contractx.ExecutionReport, error) {
	req := contractx.PlanRequest{Goal: goal, MaxSteps: maxSteps}
	if err := req.Validate(); err != nil {
		metrics.Executions.WithLabelValues(metrics.OutcomeError).Inc()
		return contractx.ExecutionReport{}, err
	}

	report, err := o.graphRunner.Invoke(ctx, req)
	if err != nil {
		metrics.Executions.WithLabelValues(metrics.OutcomeError).Inc()
		log.Ctx(ctx).Error().Err(err).Msg("executor failed")
		return contractx.ExecutionReport{}, fmt.Errorf("execute goal: %w", err)
	}

	metrics.Executions.WithLabelValues(metrics.OutcomeOK).Inc()
	return report, nil
}
