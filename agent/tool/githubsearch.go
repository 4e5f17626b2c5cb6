package tool

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v66/github"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	"github.com/tanpawarit/agentic-automator/agent/llm"
	promptx "github.com/tanpawarit/agentic-automator/agent/prompt"
)

const (
	githubMaxQueryChars = 256
	githubPerPage       = 5
)

var githubQueryPrefixes = []string{"search github for", "find repos for", "search for"}

type GithubSearch struct {
	client *github.Client
	llm    contractx.Completer
	cfg    Config
}

func NewGithubSearch(cfg Config, llm contractx.Completer) *GithubSearch {
	cfg = cfg.withDefaults()

	client := github.NewClient(&http.Client{Timeout: cfg.Timeout})
	if token := strings.TrimSpace(cfg.GithubToken); token != "" {
		client = client.WithAuthToken(token)
	}
	base := cfg.GithubBaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if u, err := url.Parse(base); err == nil {
		client.BaseURL = u
	}

	return &GithubSearch{client: client, llm: llm, cfg: cfg}
}

func (t *GithubSearch) Name() contractx.ToolName { return contractx.ToolGithubSearch }

// Run searches repositories by stars. Rejected credentials and exhausted
// rate limits are reported as error payloads.
func (t *GithubSearch) Run(ctx context.Context, input string) (contractx.ToolResult, error) {
	query := t.shorten(ctx, CleanGithubQuery(input))
	log.Ctx(ctx).Info().Str("query", input).Str("api_query", query).Msg("github search")

	var result *github.RepositoriesSearchResult
	op := func() error {
		res, resp, err := t.client.Search.Repositories(ctx, query, &github.SearchOptions{
			Sort:        "stars",
			Order:       "desc",
			ListOptions: github.ListOptions{PerPage: githubPerPage},
		})
		if err != nil {
			if resp != nil && resp.StatusCode < 500 {
				return backoff.Permanent(githubStatusError{code: resp.StatusCode, err: err})
			}
			var rle *github.RateLimitError
			if errors.As(err, &rle) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		result = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.cfg.RetryInitial
	b.MaxElapsedTime = 0
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, 2), ctx)); err != nil {
		var se githubStatusError
		var rle *github.RateLimitError
		switch {
		case errors.As(err, &se) && se.code == http.StatusUnauthorized:
			return contractx.ErrorResult("GitHub API Key Invalid (401)."), nil
		case errors.As(err, &se) && se.code == http.StatusForbidden, errors.As(err, &rle):
			return contractx.ErrorResult("GitHub Rate Limit Exceeded."), nil
		}
		return nil, fmt.Errorf("github search: %w", err)
	}

	items := make([]map[string]any, 0, githubPerPage)
	for _, repo := range result.Repositories {
		if len(items) == githubPerPage {
			break
		}
		items = append(items, map[string]any{
			"name":        repo.GetFullName(),
			"description": repo.GetDescription(),
			"stars":       repo.GetStargazersCount(),
			"url":         repo.GetHTMLURL(),
			"language":    repo.GetLanguage(),
		})
	}
	if len(items) == 0 {
		return contractx.ToolResult{"message": fmt.Sprintf("No results found for '%s'. Try broader keywords.", query)}, nil
	}
	return contractx.ToolResult{"results": items}, nil
}

// shorten asks the model for a compact query when the cleaned one is over
// the search limit, and hard-caps whatever comes back.
func (t *GithubSearch) shorten(ctx context.Context, query string) string {
	if len([]rune(query)) <= githubMaxQueryChars {
		return query
	}
	if t.llm != nil {
		if p, err := promptx.ShortenQuery(query, githubMaxQueryChars); err == nil {
			out := strings.TrimSpace(t.llm.Complete(ctx, p))
			out = strings.Trim(out, `"'`)
			if out != "" && !llm.IsFallback(out) {
				return truncate(out, githubMaxQueryChars)
			}
		}
	}
	return truncate(query, githubMaxQueryChars)
}

// CleanGithubQuery drops planner phrasing and quotes; an empty result becomes
// "popular".
func CleanGithubQuery(input string) string {
	q := strings.TrimSpace(input)
	for _, prefix := range githubQueryPrefixes {
		if len(q) >= len(prefix) && strings.EqualFold(q[:len(prefix)], prefix) {
			q = strings.TrimSpace(q[len(prefix):])
		}
	}
	q = strings.NewReplacer(`"`, "", "'", "").Replace(q)
	q = strings.TrimSpace(q)
	if q == "" {
		return "popular"
	}
	return q
}

type githubStatusError struct {
	code int
	err  error
}

func (e githubStatusError) Error() string   { return e.err.Error() }
func (e githubStatusError) Unwrap() error   { return e.err }
func (e githubStatusError) HTTPStatus() int { return e.code }
