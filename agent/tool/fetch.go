package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 16 << 20

// StatusError is a non-2xx answer from an upstream the adapters call.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// fetcher performs bounded, retried GET requests. Every attempt gets its own
// timeout; 4xx answers are not retried.
type fetcher struct {
	client       *http.Client
	timeout      time.Duration
	retryInitial time.Duration
}

func newFetcher(cfg Config) *fetcher {
	return &fetcher{
		client:       &http.Client{},
		timeout:      cfg.Timeout,
		retryInitial: cfg.RetryInitial,
	}
}

func (f *fetcher) get(ctx context.Context, url string, header http.Header, attempts int) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.retryInitial
	b.MaxInterval = 10 * f.retryInitial
	b.MaxElapsedTime = 0

	var body []byte
	op := func() error {
		data, err := f.once(ctx, url, header)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			log.Ctx(ctx).Debug().Err(err).Str("url", url).Msg("tool request failed, retrying")
			return err
		}
		body = data
		return nil
	}

	retries := uint64(0)
	if attempts > 1 {
		retries = uint64(attempts - 1)
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *fetcher) once(ctx context.Context, url string, header http.Header) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "agentic-automator/1.0")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}
