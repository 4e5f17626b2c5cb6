package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	hfx "github.com/tanpawarit/agentic-automator/pkg/huggingface"
)

var errEmptyCompletion = errors.New("backend returned an empty completion")

// httpStatuser is implemented by backend errors that carry an HTTP status.
type httpStatuser interface {
	HTTPStatus() int
}

func statusOf(err error) (int, bool) {
	var sc httpStatuser
	if errors.As(err, &sc) {
		return sc.HTTPStatus(), true
	}
	return 0, false
}

func isRateLimited(err error) bool {
	code, ok := statusOf(err)
	return ok && code == http.StatusTooManyRequests
}

// isTransient reports whether retrying the same backend and model can help:
// network failures, timeouts and 5xx. 429, other 4xx and undecodable bodies
// are not transient.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, errEmptyCompletion) || errors.Is(err, hfx.ErrMalformedResponse) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if code, ok := statusOf(err); ok {
		return code >= 500 || code == http.StatusRequestTimeout
	}
	return true
}

func (c Config) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.RetryInitial
	b.MaxInterval = c.RetryMax
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	retries := c.RetryAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// retry runs fn until it succeeds, fails with a non-transient error, or the
// attempt budget is spent. onAttempt observes every attempt's error.
func (c Config) retry(ctx context.Context, fn func(context.Context) (string, error), onAttempt func(error)) (string, error) {
	var out string
	op := func() error {
		text, err := fn(ctx)
		if err == nil && text == "" {
			err = errEmptyCompletion
		}
		if onAttempt != nil {
			onAttempt(err)
		}
		if err != nil {
			if ctx.Err() != nil || !isTransient(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = text
		return nil
	}

	if err := backoff.Retry(op, c.newBackOff(ctx)); err != nil {
		return "", err
	}
	return out, nil
}
