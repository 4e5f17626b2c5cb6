package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

func Synthesize(ctx context.Context, in *GraphState, llm contractx.Completer) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.FinalSummary = llm.Complete(ctx, in.SynthesisPrompt)
	return in, nil
}
