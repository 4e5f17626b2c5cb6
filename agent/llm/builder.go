package llm

import (
	"fmt"

	"github.com/rs/zerolog/log"
	groqx "github.com/tanpawarit/agentic-automator/pkg/groq"
	hfx "github.com/tanpawarit/agentic-automator/pkg/huggingface"
)

// NewFromConfig wires the Groq primary and Hugging Face secondary backends.
// A backend without an API key is left out of the chain.
func NewFromConfig(cfg Config, groqCfg groqx.Config, hfCfg hfx.Config) (*Gateway, error) {
	var opts []Option

	if primary := groqx.NewClient(groqCfg); primary != nil {
		opts = append(opts, WithPrimary(primary, groqCfg.Models))
	} else {
		log.Warn().Msg("groq api key not configured, primary backend disabled")
	}

	secondary, err := hfx.NewClient(hfCfg)
	if err != nil {
		return nil, fmt.Errorf("create huggingface client: %w", err)
	}
	if secondary != nil {
		opts = append(opts, WithSecondary(secondary))
	} else {
		log.Warn().Msg("huggingface api key not configured, secondary backend disabled")
	}

	return New(cfg, opts...)
}
