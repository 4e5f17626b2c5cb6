package main

import (
	"context"
	"fmt"

	"github.com/tanpawarit/agentic-automator/agent/agents/orchestrator"
	"github.com/tanpawarit/agentic-automator/agent/agents/planner"
	"github.com/tanpawarit/agentic-automator/agent/api"
	"github.com/tanpawarit/agentic-automator/agent/llm"
	"github.com/tanpawarit/agentic-automator/agent/ratelimit"
	"github.com/tanpawarit/agentic-automator/agent/tool"
	configx "github.com/tanpawarit/agentic-automator/pkg/config"
	groqx "github.com/tanpawarit/agentic-automator/pkg/groq"
	hfx "github.com/tanpawarit/agentic-automator/pkg/huggingface"
)

// app holds the wired agent shared by every command.
type app struct {
	gateway      *llm.Gateway
	tools        *tool.Registry
	orchestrator *orchestrator.Orchestrator
}

func newApp(ctx context.Context) (*app, error) {
	llmCfg, err := configx.New[llm.Config]("LLM")
	if err != nil {
		return nil, fmt.Errorf("load llm config: %w", err)
	}
	groqCfg, err := configx.New[groqx.Config]("GROQ")
	if err != nil {
		return nil, fmt.Errorf("load groq config: %w", err)
	}
	hfCfg, err := configx.New[hfx.Config]("HF")
	if err != nil {
		return nil, fmt.Errorf("load huggingface config: %w", err)
	}
	toolCfg, err := configx.New[tool.Config]("")
	if err != nil {
		return nil, fmt.Errorf("load tool config: %w", err)
	}

	gateway, err := llm.NewFromConfig(*llmCfg, *groqCfg, *hfCfg)
	if err != nil {
		return nil, fmt.Errorf("create llm gateway: %w", err)
	}

	plan, err := planner.New(ctx, gateway)
	if err != nil {
		return nil, fmt.Errorf("create planner: %w", err)
	}

	tools := tool.NewDefaultRegistry(*toolCfg, gateway)

	orch, err := orchestrator.New(plan, tools, gateway)
	if err != nil {
		return nil, fmt.Errorf("create orchestrator: %w", err)
	}

	return &app{gateway: gateway, tools: tools, orchestrator: orch}, nil
}

func (a *app) server() (*api.Server, error) {
	apiCfg, err := configx.New[api.Config]("")
	if err != nil {
		return nil, fmt.Errorf("load api config: %w", err)
	}
	rlCfg, err := configx.New[ratelimit.Config]("RATE_LIMIT")
	if err != nil {
		return nil, fmt.Errorf("load rate limit config: %w", err)
	}
	redisCfg, err := configx.New[ratelimit.RedisConfig]("REDIS")
	if err != nil {
		return nil, fmt.Errorf("load redis config: %w", err)
	}
	upstashCfg, err := configx.New[ratelimit.UpstashConfig]("UPSTASH_REDIS")
	if err != nil {
		return nil, fmt.Errorf("load upstash config: %w", err)
	}

	limiter, err := ratelimit.New(*rlCfg, *redisCfg, *upstashCfg)
	if err != nil {
		return nil, fmt.Errorf("create rate limiter: %w", err)
	}

	return api.New(*apiCfg, a.orchestrator, a.tools, limiter), nil
}
