package tool

import "time"

// Config is loaded without a prefix so the keys match the deployment env.
type Config struct {
	GithubToken   string        `envconfig:"GITHUB_TOKEN"`
	GithubBaseURL string        `envconfig:"GITHUB_BASE_URL" default:"https://api.github.com/"`
	SerpAPIKey    string        `envconfig:"SERP_API_KEY"`
	SerpAPIURL    string        `envconfig:"SERP_API_URL" default:"https://serpapi.com/search.json"`
	DuckDuckGoURL string        `envconfig:"DUCKDUCKGO_URL" default:"https://duckduckgo.com/html/"`
	Timeout       time.Duration `envconfig:"TOOL_TIMEOUT" default:"20s"`
	RetryInitial  time.Duration `envconfig:"TOOL_RETRY_INITIAL" default:"500ms"`
}

var DefaultConfig = Config{
	GithubBaseURL: "https://api.github.com/",
	SerpAPIURL:    "https://serpapi.com/search.json",
	DuckDuckGoURL: "https://duckduckgo.com/html/",
	Timeout:       20 * time.Second,
	RetryInitial:  500 * time.Millisecond,
}

func (c Config) withDefaults() Config {
	if c.GithubBaseURL == "" {
		c.GithubBaseURL = DefaultConfig.GithubBaseURL
	}
	if c.SerpAPIURL == "" {
		c.SerpAPIURL = DefaultConfig.SerpAPIURL
	}
	if c.DuckDuckGoURL == "" {
		c.DuckDuckGoURL = DefaultConfig.DuckDuckGoURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultConfig.Timeout
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = DefaultConfig.RetryInitial
	}
	return c
}
