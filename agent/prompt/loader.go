package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

//go:embed template/*.txt
var templateFS embed.FS

// templates are parsed once; a broken template is a build defect.
var templates = template.Must(template.ParseFS(templateFS, "template/*.txt"))

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	// drop the newline that terminates the template file
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func Planner(goal string, maxSteps int) (string, error) {
	return render("planner.txt", struct {
		Goal     string
		MaxSteps int
	}{goal, maxSteps})
}

// PlanSummary lists the steps as "1. a\n2. b" under the summary instruction.
func PlanSummary(steps []contractx.PlanStep) (string, error) {
	return render("plan_summary.txt", struct {
		Steps []contractx.PlanStep
	}{steps})
}

// Synthesis keeps block verbatim; the caller owns truncation.
func Synthesis(block string) (string, error) {
	return render("synthesis.txt", struct{ Block string }{block})
}

func Summarize(text string) (string, error) {
	return render("summarize.txt", struct{ Text string }{text})
}

func ShortenQuery(query string, limit int) (string, error) {
	return render("shorten_query.txt", struct {
		Query string
		Limit int
	}{query, limit})
}
