package tool

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

const pdfMaxChars = 20000

type PDFExtract struct {
	fetch *fetcher
}

func NewPDFExtract(cfg Config) *PDFExtract {
	return &PDFExtract{fetch: newFetcher(cfg.withDefaults())}
}

func (t *PDFExtract) Name() contractx.ToolName { return contractx.ToolPDFExtract }

// Run extracts the text of every page from a URL or a local path.
func (t *PDFExtract) Run(ctx context.Context, input string) (contractx.ToolResult, error) {
	source := pdfSource(input)
	if source == "" {
		return nil, fmt.Errorf("%w: no pdf source in %q", contractx.ErrToolFailed, input)
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = t.fetch.get(ctx, source, nil, 3)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("load pdf %s: %w", source, err)
	}

	text, err := pdfText(data)
	if err != nil {
		return nil, fmt.Errorf("parse pdf %s: %w", source, err)
	}
	return contractx.ToolResult{"source": source, "text": truncate(text, pdfMaxChars)}, nil
}

// pdfSource picks the first URL, else the first token naming a .pdf file,
// else the whole trimmed input.
func pdfSource(input string) string {
	if u := firstURL(input); u != "" {
		return u
	}
	for _, tok := range strings.Fields(input) {
		if strings.HasSuffix(strings.ToLower(tok), ".pdf") {
			return tok
		}
	}
	return strings.TrimSpace(input)
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}
