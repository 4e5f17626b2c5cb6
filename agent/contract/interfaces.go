package contract

import "context"

// Completer is the text-completion capability shared by the planner, the
// executor and the tools that need a model. Implementations never fail: on
// total provider outage they return a degraded, non-empty string.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...CompleteOption) string
}

type Planner interface {
	Plan(ctx context.Context, goal string, maxSteps int) (Plan, error)
}

// Tool is one adapter of the closed tool set. Run reports failures as errors;
// the orchestrator turns them into error payloads.
type Tool interface {
	Name() ToolName
	Run(ctx context.Context, input string) (ToolResult, error)
}

type ToolRegistry interface {
	Lookup(name ToolName) (Tool, bool)
	Names() []ToolName
}

type RateLimiter interface {
	Admit(ctx context.Context, clientID string) (bool, error)
}

type CompleteOptions struct {
	PreferredModel string
}

type CompleteOption func(*CompleteOptions)

func WithPreferredModel(model string) CompleteOption {
	return func(o *CompleteOptions) {
		o.PreferredModel = model
	}
}

func ApplyCompleteOptions(opts ...CompleteOption) CompleteOptions {
	var out CompleteOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}
