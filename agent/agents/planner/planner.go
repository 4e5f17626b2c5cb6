package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	promptx "github.com/tanpawarit/agentic-automator/agent/prompt"
)

// Planner decomposes a goal into mechanical steps through the completion
// gateway. It keeps no per-request state and is safe for concurrent use.
type Planner struct {
	runner compose.Runnable[contractx.PlanRequest, contractx.Plan]
}

var _ contractx.Planner = (*Planner)(nil)

type planState struct {
	Req    contractx.PlanRequest
	Prompt string
	Raw    string
	Steps  []contractx.PlanStep
}

func New(ctx context.Context, llm contractx.Completer) (*Planner, error) {
	if llm == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	runner, err := compilePlanGraph(ctx, llm)
	if err != nil {
		return nil, fmt.Errorf("%w: compile planner graph: %v", contractx.ErrModelInvoke, err)
	}
	return &Planner{runner: runner}, nil
}

func (p *Planner) Plan(ctx context.Context, goal string, maxSteps int) (contractx.Plan, error) {
	req := contractx.PlanRequest{Goal: goal, MaxSteps: maxSteps}
	if err := req.Validate(); err != nil {
		return contractx.Plan{}, err
	}

	plan, err := p.runner.Invoke(ctx, req)
	if err != nil {
		return contractx.Plan{}, fmt.Errorf("%w: planner invoke: %v", contractx.ErrModelInvoke, err)
	}
	return plan, nil
}

func compilePlanGraph(ctx context.Context, llm contractx.Completer) (compose.Runnable[contractx.PlanRequest, contractx.Plan], error) {
	graph := compose.NewGraph[contractx.PlanRequest, contractx.Plan]()

	if err := graph.AddLambdaNode("build_prompt",
		compose.InvokableLambda(func(ctx context.Context, req contractx.PlanRequest) (*planState, error) {
			text, err := promptx.Planner(req.Goal, req.MaxSteps)
			if err != nil {
				return nil, err
			}
			return &planState{Req: req, Prompt: text}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add planner build_prompt node: %w", err)
	}

	if err := graph.AddLambdaNode("draft_plan",
		compose.InvokableLambda(func(ctx context.Context, st *planState) (*planState, error) {
			st.Raw = llm.Complete(ctx, st.Prompt)
			return st, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add planner draft_plan node: %w", err)
	}

	if err := graph.AddLambdaNode("parse_steps",
		compose.InvokableLambda(func(ctx context.Context, st *planState) (*planState, error) {
			st.Steps = ParseSteps(st.Raw, st.Req.MaxSteps)
			if len(st.Steps) == 0 {
				log.Ctx(ctx).Warn().Str("goal", st.Req.Goal).Msg("no usable plan lines, using the goal as the only step")
				st.Steps = []contractx.PlanStep{{ID: 1, Description: st.Req.Goal}}
			}
			return st, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add planner parse_steps node: %w", err)
	}

	if err := graph.AddLambdaNode("summarize_plan",
		compose.InvokableLambda(func(ctx context.Context, st *planState) (contractx.Plan, error) {
			text, err := promptx.PlanSummary(st.Steps)
			if err != nil {
				return contractx.Plan{}, err
			}
			summary := strings.TrimSpace(llm.Complete(ctx, text))
			log.Ctx(ctx).Info().Int("steps", len(st.Steps)).Int("max_steps", st.Req.MaxSteps).Msg("plan created")
			return contractx.Plan{Steps: st.Steps, Summary: summary}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add planner summarize_plan node: %w", err)
	}

	edges := [][2]string{
		{compose.START, "build_prompt"},
		{"build_prompt", "draft_plan"},
		{"draft_plan", "parse_steps"},
		{"parse_steps", "summarize_plan"},
		{"summarize_plan", compose.END},
	}
	for _, e := range edges {
		if err := graph.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("add planner edge %s->%s: %w", e[0], e[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("planner.plan_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile planner graph: %w", err)
	}
	return runner, nil
}
