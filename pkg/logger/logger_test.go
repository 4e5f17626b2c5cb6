package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
)

// Init swaps the global logger, so these tests do not run in parallel.

func TestInitWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	t.Cleanup(func() { Init() })

	log.Info().Str("step_id", "1").Msg("hello")

	got := buf.String()
	if !strings.Contains(got, `"message":"hello"`) || !strings.Contains(got, `"step_id":"1"`) {
		t.Fatalf("log output = %q", got)
	}
}

func TestInitLevelAndPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf, PrettyFormat: true})
	t.Cleanup(func() { Init() })

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Fatalf("debug line written at info level: %q", got)
	}
	if !strings.Contains(got, "shown") || strings.HasPrefix(strings.TrimSpace(got), "{") {
		t.Fatalf("expected console formatted output, got %q", got)
	}
}
