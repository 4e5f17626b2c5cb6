package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	MinSteps     = 1
	MaxSteps     = 20
	DefaultSteps = 5
)

type ToolName string

const (
	ToolWebFetch     ToolName = "web_fetch"
	ToolGithubSearch ToolName = "github_search"
	ToolPDFExtract   ToolName = "pdf_extract"
	ToolWebSearch    ToolName = "web_search"
	ToolSummarize    ToolName = "summarize"
)

type PlanStep struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Plan is the ordered step list for one goal. It always holds at least one step.
type Plan struct {
	Steps   []PlanStep
	Summary string
}

type planJSON struct {
	Plan         []PlanStep `json:"plan"`
	Steps        []PlanStep `json:"steps"`
	FinalSummary string     `json:"final_summary"`
}

func (p Plan) MarshalJSON() ([]byte, error) {
	steps := p.Steps
	if steps == nil {
		steps = []PlanStep{}
	}
	return json.Marshal(planJSON{Plan: steps, Steps: steps, FinalSummary: p.Summary})
}

func (p *Plan) UnmarshalJSON(data []byte) error {
	var raw planJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Steps = raw.Steps
	if len(p.Steps) == 0 {
		p.Steps = raw.Plan
	}
	p.Summary = raw.FinalSummary
	return nil
}

// ToolResult is either a tool-specific success payload or an error payload
// carrying an "error" field.
type ToolResult map[string]any

func ErrorResult(format string, args ...any) ToolResult {
	return ToolResult{"error": fmt.Sprintf(format, args...)}
}

func (r ToolResult) Err() (string, bool) {
	v, ok := r["error"]
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// String renders the payload as compact JSON with sorted keys.
func (r ToolResult) String() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(r)); err != nil {
		return fmt.Sprint(map[string]any(r))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

type IntermediateResult struct {
	Step   PlanStep   `json:"step"`
	Result ToolResult `json:"result"`
}

type TimelineEntry struct {
	StepID   int      `json:"step_id"`
	Tool     ToolName `json:"tool"`
	Duration float64  `json:"duration"`
}

type ExecutionReport struct {
	Plan         []PlanStep           `json:"plan"`
	Intermediate []IntermediateResult `json:"intermediate"`
	FinalSummary string               `json:"final_summary"`
	Timeline     []TimelineEntry      `json:"timeline"`
}

type PlanRequest struct {
	Goal     string `json:"goal"`
	MaxSteps int    `json:"max_steps"`
}

type ExecuteRequest struct {
	PlanRequest PlanRequest `json:"plan_request"`
}
