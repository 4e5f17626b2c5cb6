package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultBaseURL = "https://api.groq.com/openai/v1"

var ErrEmptyCompletion = errors.New("groq: completion has no choices")

type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.groq.com/openai/v1"`
	APIKey    string        `envconfig:"API_KEY" split_words:"true"`
	Models    []string      `envconfig:"MODELS" split_words:"true" default:"llama-3.3-70b-versatile,llama-3.1-8b-instant,gpt-oss-20b"`
	MaxTokens int64         `envconfig:"MAX_TOKENS" split_words:"true" default:"800"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// Client issues single-message chat completions against Groq's
// OpenAI-compatible endpoint. Retries are left to the caller.
type Client struct {
	sdk       *openaisdk.Client
	maxTokens int64
}

// StatusError carries the HTTP status of a failed completion.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("groq: status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// NewClient returns nil when no API key is configured so callers can skip
// the backend.
func NewClient(cfg Config, extra ...option.RequestOption) *Client {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append(opts, option.WithBaseURL(baseURL+"/"))
	opts = append(opts, extra...)

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 800
	}

	sdk := openaisdk.NewClient(opts...)
	return &Client{sdk: &sdk, maxTokens: maxTokens}
}

func (c *Client) Name() string { return "groq" }

func (c *Client) Complete(ctx context.Context, model string, prompt string) (string, error) {
	resp, err := c.sdk.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		MaxTokens: openaisdk.Int(c.maxTokens),
	})
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			return "", &StatusError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &StatusError{StatusCode: http.StatusBadGateway, Err: ErrEmptyCompletion}
	}
	return resp.Choices[0].Message.Content, nil
}
