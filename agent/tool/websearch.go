package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

const ddgSnippetChars = 8000

type WebSearch struct {
	fetch *fetcher
	cfg   Config
}

func NewWebSearch(cfg Config) *WebSearch {
	cfg = cfg.withDefaults()
	return &WebSearch{fetch: newFetcher(cfg), cfg: cfg}
}

func (t *WebSearch) Name() contractx.ToolName { return contractx.ToolWebSearch }

// Run queries SerpAPI when a key is configured and the DuckDuckGo HTML
// endpoint otherwise.
func (t *WebSearch) Run(ctx context.Context, input string) (contractx.ToolResult, error) {
	if t.cfg.SerpAPIKey != "" {
		return t.serp(ctx, input)
	}
	return t.duckDuckGo(ctx, input)
}

func (t *WebSearch) serp(ctx context.Context, query string) (contractx.ToolResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", t.cfg.SerpAPIKey)

	body, err := t.fetch.get(ctx, t.cfg.SerpAPIURL+"?"+params.Encode(), nil, 3)
	if err != nil {
		return nil, fmt.Errorf("serpapi search: %w", err)
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}
	return contractx.ToolResult{"source": "serpapi", "data": data}, nil
}

func (t *WebSearch) duckDuckGo(ctx context.Context, query string) (contractx.ToolResult, error) {
	body, err := t.fetch.get(ctx, t.cfg.DuckDuckGoURL+"?q="+url.QueryEscape(query), nil, 2)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}

	snippet := truncate(string(body), ddgSnippetChars)
	out := contractx.ToolResult{"source": "duckduckgo_html", "html_snippet": snippet}

	md, err := htmltomarkdown.ConvertString(snippet)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("convert search snippet to markdown")
		return out, nil
	}
	out["markdown"] = md
	return out, nil
}
