package tool

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	promptx "github.com/tanpawarit/agentic-automator/agent/prompt"
)

const summarizeInputChars = 4000

type Summarize struct {
	llm contractx.Completer
}

func NewSummarize(llm contractx.Completer) *Summarize {
	return &Summarize{llm: llm}
}

func (t *Summarize) Name() contractx.ToolName { return contractx.ToolSummarize }

func (t *Summarize) Run(ctx context.Context, input string) (contractx.ToolResult, error) {
	if t.llm == nil {
		return nil, fmt.Errorf("%w: summarize has no completer", contractx.ErrProviderNotConfigured)
	}
	p, err := promptx.Summarize(truncate(input, summarizeInputChars))
	if err != nil {
		return nil, err
	}
	return contractx.ToolResult{"summary": t.llm.Complete(ctx, p)}, nil
}
