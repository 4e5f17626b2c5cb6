package orchestratornode

import (
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

func ValidateRequest(in contractx.PlanRequest) (*GraphState, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &GraphState{Req: in}, nil
}
