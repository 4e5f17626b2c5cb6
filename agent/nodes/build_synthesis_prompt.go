package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	promptx "github.com/tanpawarit/agentic-automator/agent/prompt"
)

const (
	StepResultLimit = 2000
	TotalBlockLimit = 25000

	stepTruncatedMarker  = "...[truncated]"
	totalTruncatedMarker = "\n[...Total output truncated due to length safety...]"
)

func BuildSynthesisPrompt(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	text, err := promptx.Synthesis(ResultBlock(in.Intermediate))
	if err != nil {
		return nil, err
	}
	in.SynthesisPrompt = text
	return in, nil
}

// ResultBlock renders one "Step {id} ({description}) => {result}" line per
// step. Each result is capped at StepResultLimit characters and the whole
// block at TotalBlockLimit.
func ResultBlock(items []contractx.IntermediateResult) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		content := item.Result.String()
		if cut, ok := cutRunes(content, StepResultLimit); ok {
			content = cut + stepTruncatedMarker
		}
		lines = append(lines, fmt.Sprintf("Step %d (%s) => %s", item.Step.ID, item.Step.Description, content))
	}

	block := strings.Join(lines, "\n")
	if cut, ok := cutRunes(block, TotalBlockLimit); ok {
		block = cut + totalTruncatedMarker
	}
	return block
}

// cutRunes returns the first n characters of s and whether s was longer.
func cutRunes(s string, n int) (string, bool) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}
