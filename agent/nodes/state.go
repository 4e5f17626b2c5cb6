package orchestratornode

import (
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

// GraphState is the value passed between the execute graph's nodes. It is
// owned by a single request.
type GraphState struct {
	Req  contractx.PlanRequest
	Plan contractx.Plan

	Intermediate []contractx.IntermediateResult
	Timeline     []contractx.TimelineEntry

	SynthesisPrompt string
	FinalSummary    string
}
