package planner

import (
	"strings"
	"unicode"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

var stepLabels = []string{"step:", "action:", "command:"}

// ParseSteps turns a numbered-list completion into at most maxSteps plan
// steps with ids 1..n. Lines that carry no content are skipped.
func ParseSteps(raw string, maxSteps int) []contractx.PlanStep {
	if maxSteps <= 0 {
		return nil
	}
	steps := make([]contractx.PlanStep, 0, maxSteps)
	for _, line := range strings.Split(raw, "\n") {
		if len(steps) >= maxSteps {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		desc := cleanLine(line)
		if desc == "" {
			continue
		}
		steps = append(steps, contractx.PlanStep{ID: len(steps) + 1, Description: desc})
	}
	return steps
}

func cleanLine(line string) string {
	line = strings.TrimSpace(strings.Trim(line, " -\t\r"))

	if num, rest, ok := strings.Cut(line, "."); ok && isDigits(num) {
		line = strings.TrimSpace(rest)
	}

	for {
		stripped := false
		for _, label := range stepLabels {
			if len(line) >= len(label) && strings.EqualFold(line[:len(label)], label) {
				line = strings.TrimSpace(line[len(label):])
				stripped = true
			}
		}
		if !stripped {
			return line
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
