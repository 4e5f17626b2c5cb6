package tool

import (
	"slices"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

// Canonical lists the closed tool set in presentation order.
var Canonical = []contractx.ToolName{
	contractx.ToolWebFetch,
	contractx.ToolGithubSearch,
	contractx.ToolPDFExtract,
	contractx.ToolWebSearch,
	contractx.ToolSummarize,
}

// Registry is a lookup table built once at startup and read-only afterwards.
type Registry struct {
	tools map[contractx.ToolName]contractx.Tool
}

var _ contractx.ToolRegistry = (*Registry)(nil)

// NewRegistry registers tools by name; a later tool replaces an earlier one
// with the same name.
func NewRegistry(tools ...contractx.Tool) *Registry {
	r := &Registry{tools: make(map[contractx.ToolName]contractx.Tool, len(tools))}
	for _, t := range tools {
		if t == nil {
			continue
		}
		r.tools[t.Name()] = t
	}
	return r
}

// NewDefaultRegistry wires all five adapters.
func NewDefaultRegistry(cfg Config, llm contractx.Completer) *Registry {
	return NewRegistry(
		NewWebFetch(cfg),
		NewGithubSearch(cfg, llm),
		NewPDFExtract(cfg),
		NewWebSearch(cfg),
		NewSummarize(llm),
	)
}

func (r *Registry) Lookup(name contractx.ToolName) (contractx.Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names lists registered tools in canonical order, followed by any others.
func (r *Registry) Names() []contractx.ToolName {
	out := make([]contractx.ToolName, 0, len(r.tools))
	seen := make(map[contractx.ToolName]struct{}, len(r.tools))
	for _, name := range Canonical {
		if _, ok := r.tools[name]; ok {
			out = append(out, name)
			seen[name] = struct{}{}
		}
	}
	var extra []contractx.ToolName
	for name := range r.tools {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}
