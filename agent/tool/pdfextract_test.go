package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestPDFSource(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"extract https://example.com/paper.pdf please": "https://example.com/paper.pdf",
		"read docs/report.PDF":                         "docs/report.PDF",
		"  /tmp/file  ":                                "/tmp/file",
	}
	for in, want := range tests {
		if got := pdfSource(in); got != want {
			t.Errorf("pdfSource(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPDFExtractFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a pdf"))
	}))
	defer srv.Close()

	tool := NewPDFExtract(testConfig())

	if _, err := tool.Run(context.Background(), srv.URL+"/doc.pdf"); err == nil {
		t.Fatal("expected parse error for non-pdf body")
	}
	if _, err := tool.Run(context.Background(), filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatal("expected error for missing local file")
	}
	if _, err := tool.Run(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty source")
	}
}
