package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	nodex "github.com/tanpawarit/agentic-automator/agent/nodes"
)

func (o *Orchestrator) compileExecuteGraph(
	ctx context.Context,
) (compose.Runnable[contractx.PlanRequest, contractx.ExecutionReport], error) {
	graph := compose.NewGraph[contractx.PlanRequest, contractx.ExecutionReport]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in contractx.PlanRequest) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("plan_goal",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PlanGoal(ctx, in, o.planner)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan_goal: %w", err)
	}

	if err := graph.AddLambdaNode("run_steps",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RunSteps(ctx, in, o.tools, o.selectTool)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_steps: %w", err)
	}

	if err := graph.AddLambdaNode("build_synthesis_prompt",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.BuildSynthesisPrompt(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node build_synthesis_prompt: %w", err)
	}

	if err := graph.AddLambdaNode("synthesize",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Synthesize(ctx, in, o.llm)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node synthesize: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_report",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (contractx.ExecutionReport, error) {
			return nodex.FinalizeReport(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_report: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "plan_goal"},
		{"plan_goal", "run_steps"},
		{"run_steps", "build_synthesis_prompt"},
		{"build_synthesis_prompt", "synthesize"},
		{"synthesize", "finalize_report"},
		{"finalize_report", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.execute"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
