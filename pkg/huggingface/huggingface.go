package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrMalformedResponse marks a 2xx answer whose body cannot be decoded.
// Asking again returns the same body.
var ErrMalformedResponse = errors.New("huggingface: response is not json")

const (
	DefaultBaseURL       = "https://api-inference.huggingface.co"
	maxResponseSizeBytes = 2 << 20
)

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api-inference.huggingface.co"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	Model   string        `envconfig:"MODEL" split_words:"true" default:"gpt2"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// ClientOption customizes Client.
type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client calls the Hugging Face inference API text generation endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("huggingface: status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// NewClient returns nil, nil when no API key is configured.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, nil
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid huggingface base url: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt2"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func (c *Client) Name() string { return "huggingface" }

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{"inputs": prompt})
	if err != nil {
		return "", fmt.Errorf("marshal huggingface payload: %w", err)
	}

	endpoint := c.baseURL + "/models/" + url.PathEscape(c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build huggingface request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return "", fmt.Errorf("read huggingface response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	return decodeGeneration(raw)
}

func decodeGeneration(raw []byte) (string, error) {
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return string(raw), nil
		}
		text, _ := list[0]["generated_text"].(string)
		return text, nil
	}

	var anyValue any
	if err := json.Unmarshal(raw, &anyValue); err != nil {
		return "", ErrMalformedResponse
	}
	return strings.TrimSpace(string(raw)), nil
}
