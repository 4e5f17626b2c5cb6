package tool

import (
	"strings"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

// Select routes a step description to a tool. Rules are checked in order and
// the first match wins.
func Select(description string) contractx.ToolName {
	d := strings.ToLower(description)

	switch {
	case strings.Contains(d, "github") || strings.Contains(d, "repo"):
		return contractx.ToolGithubSearch
	case strings.HasPrefix(d, "fetch") || strings.HasPrefix(d, "open") || strings.HasPrefix(d, "visit") || strings.Contains(d, "http"):
		return contractx.ToolWebFetch
	case strings.HasSuffix(d, ".pdf") || strings.Contains(d, "pdf"):
		return contractx.ToolPDFExtract
	case strings.Contains(d, "search") || strings.Contains(d, "google") || strings.Contains(d, "serp"):
		return contractx.ToolWebSearch
	default:
		return contractx.ToolSummarize
	}
}
