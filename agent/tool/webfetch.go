package tool

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	"golang.org/x/net/html"
)

const webFetchMaxChars = 10000

type WebFetch struct {
	fetch *fetcher
}

func NewWebFetch(cfg Config) *WebFetch {
	return &WebFetch{fetch: newFetcher(cfg.withDefaults())}
}

func (t *WebFetch) Name() contractx.ToolName { return contractx.ToolWebFetch }

// Run downloads the first URL of input and extracts its readable text. An
// input without a URL yields an error payload rather than a failure.
func (t *WebFetch) Run(ctx context.Context, input string) (contractx.ToolResult, error) {
	link := firstURL(input)
	if link == "" {
		return contractx.ToolResult{"error": "no URL found in query", "query": input}, nil
	}

	body, err := t.fetch.get(ctx, link, nil, 3)
	if err != nil {
		return nil, err
	}

	title, text := extractArticle(body, link)
	if title == "" {
		title = link
	}
	log.Ctx(ctx).Debug().Str("url", link).Int("chars", len(text)).Msg("page fetched")

	return contractx.ToolResult{
		"url":   link,
		"title": title,
		"text":  truncate(text, webFetchMaxChars),
	}, nil
}

// extractArticle prefers readability's main-content text and falls back to
// the page's <p> elements when readability finds nothing.
func extractArticle(body []byte, link string) (string, string) {
	pageURL, err := url.Parse(link)
	if err != nil {
		pageURL = &url.URL{}
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			title := strings.TrimSpace(article.Title)
			if title == "" {
				title, _ = paragraphText(body)
			}
			return title, text
		}
	}
	return paragraphText(body)
}

func paragraphText(body []byte) (string, string) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", ""
	}

	var (
		title      string
		paragraphs []string
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if title == "" {
					title = strings.TrimSpace(nodeText(n))
				}
				return
			case "p":
				paragraphs = append(paragraphs, nodeText(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, strings.Join(paragraphs, "\n")
}

func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
