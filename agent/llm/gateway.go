package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	"github.com/tanpawarit/agentic-automator/pkg/metrics"
)

const (
	fallbackPromptChars = 2000
	fallbackPrefix      = "[fallback] LLM providers unavailable."
)

// ModelBackend is a completion backend addressed per model, tried in the
// order of the candidate list.
type ModelBackend interface {
	Name() string
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

// Backend is a single-model completion backend used after every model of the
// primary backend has failed.
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

type Option func(*Gateway)

func WithPrimary(backend ModelBackend, models []string) Option {
	return func(g *Gateway) {
		g.primary = backend
		g.models = append([]string(nil), models...)
	}
}

func WithSecondary(backend Backend) Option {
	return func(g *Gateway) {
		g.secondary = backend
	}
}

// Gateway chains completion backends behind a call that always yields text.
// Its configuration is read-only after construction, so one Gateway serves
// concurrent requests.
type Gateway struct {
	cfg       Config
	primary   ModelBackend
	models    []string
	secondary Backend
}

var _ contractx.Completer = (*Gateway)(nil)

func New(cfg Config, opts ...Option) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Gateway{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// Complete tries each candidate model on the primary backend, then the
// secondary backend, then answers with Fallback(prompt).
func (g *Gateway) Complete(ctx context.Context, prompt string, opts ...contractx.CompleteOption) string {
	o := contractx.ApplyCompleteOptions(opts...)

	if g.primary != nil {
		for _, model := range CandidateModels(o.PreferredModel, g.models) {
			text, err := g.cfg.retry(ctx, func(ctx context.Context) (string, error) {
				return g.primary.Complete(ctx, model, prompt)
			}, g.observe(g.primary.Name(), model))
			if err == nil {
				return text
			}
			if ctx.Err() != nil {
				return g.fallback(ctx, prompt)
			}
			if isRateLimited(err) {
				log.Ctx(ctx).Warn().Str("backend", g.primary.Name()).Str("model", model).Msg("model rate limited, rotating to next candidate")
				continue
			}
			log.Ctx(ctx).Warn().Err(err).Str("backend", g.primary.Name()).Str("model", model).Msg("model failed, rotating to next candidate")
		}
	}

	if g.secondary != nil {
		text, err := g.cfg.retry(ctx, func(ctx context.Context) (string, error) {
			return g.secondary.Complete(ctx, prompt)
		}, g.observe(g.secondary.Name(), "default"))
		if err == nil {
			return text
		}
		log.Ctx(ctx).Warn().Err(err).Str("backend", g.secondary.Name()).Msg("secondary backend failed")
	}

	return g.fallback(ctx, prompt)
}

func (g *Gateway) fallback(ctx context.Context, prompt string) string {
	metrics.LLMFallbacks.Inc()
	log.Ctx(ctx).Error().Int("prompt_length", len([]rune(prompt))).Msg("all llm providers unavailable, using fallback text")
	return Fallback(prompt)
}

func (g *Gateway) observe(backend, model string) func(error) {
	return func(err error) {
		outcome := metrics.OutcomeOK
		switch {
		case err == nil:
		case isRateLimited(err):
			outcome = metrics.OutcomeRateLimited
		default:
			outcome = metrics.OutcomeError
			log.Debug().Err(err).Str("backend", backend).Str("model", model).Msg("completion attempt failed")
		}
		metrics.LLMAttempts.WithLabelValues(backend, model, outcome).Inc()
	}
}

// CandidateModels puts preferred first, then the configured models, dropping
// blanks and duplicates while keeping order.
func CandidateModels(preferred string, configured []string) []string {
	out := make([]string, 0, len(configured)+1)
	seen := make(map[string]struct{}, len(configured)+1)
	add := func(m string) {
		m = strings.TrimSpace(m)
		if m == "" {
			return
		}
		if _, ok := seen[m]; ok {
			return
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}

	add(preferred)
	for _, m := range configured {
		add(m)
	}
	return out
}

// Fallback is the deterministic degraded answer used when no backend can
// answer. It is never empty.
func Fallback(prompt string) string {
	runes := []rune(prompt)
	prefix := runes
	if len(prefix) > fallbackPromptChars {
		prefix = prefix[:fallbackPromptChars]
	}
	return fmt.Sprintf("%s Prompt length=%d\nPrompt:\n%s", fallbackPrefix, len(runes), string(prefix))
}

// IsFallback reports whether text is a degraded answer produced by Fallback.
func IsFallback(text string) bool {
	return strings.HasPrefix(text, fallbackPrefix)
}
