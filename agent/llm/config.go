package llm

import (
	"fmt"
	"time"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

type Config struct {
	RetryAttempts int           `envconfig:"RETRY_ATTEMPTS" split_words:"true" default:"3"`
	RetryInitial  time.Duration `envconfig:"RETRY_INITIAL" split_words:"true" default:"1s"`
	RetryMax      time.Duration `envconfig:"RETRY_MAX" split_words:"true" default:"10s"`
}

var DefaultConfig = Config{
	RetryAttempts: 3,
	RetryInitial:  time.Second,
	RetryMax:      10 * time.Second,
}

func (c Config) Validate() error {
	if c.RetryAttempts < 1 {
		return fmt.Errorf("%w: retry attempts must be >= 1", contractx.ErrValidation)
	}
	if c.RetryInitial <= 0 || c.RetryMax <= 0 {
		return fmt.Errorf("%w: retry intervals must be positive", contractx.ErrValidation)
	}
	if c.RetryMax < c.RetryInitial {
		return fmt.Errorf("%w: retry max interval is below the initial interval", contractx.ErrValidation)
	}
	return nil
}
