package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	stdout, _, err := runRootStreams(t, args...)
	return stdout, err
}

// runRootStreams runs the CLI with no provider keys and returns stdout and
// stderr separately.
func runRootStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	for _, key := range []string{"GROQ_API_KEY", "HF_API_KEY", "GITHUB_TOKEN", "SERP_API_KEY"} {
		t.Setenv(key, "")
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("LOG_DEBUG=false\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	var stdout, stderr bytes.Buffer
	root := rootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--env", envFile}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestToolsCommandListsCanonicalOrder(t *testing.T) {
	out, err := runRoot(t, "tools")
	if err != nil {
		t.Fatalf("tools: %v", err)
	}

	want := []string{"web_fetch", "github_search", "pdf_extract", "web_search", "summarize"}
	got := strings.Fields(out)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("tools = %v, want %v", got, want)
	}
}

func TestPlanCommandRejectsBudget(t *testing.T) {
	_, err := runRoot(t, "plan", "find cats", "--max-steps", "0")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCommandsRequireGoal(t *testing.T) {
	for _, name := range []string{"plan", "execute"} {
		if _, err := runRoot(t, name); err == nil {
			t.Fatalf("%s without a goal must fail", name)
		}
	}
}

func TestPlanCommandKeepsLogsOffStdout(t *testing.T) {
	stdout, stderr, err := runRootStreams(t, "plan", "find cats", "--max-steps", "2")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	var plan contractx.Plan
	if err := json.Unmarshal([]byte(stdout), &plan); err != nil {
		t.Fatalf("stdout is not a single plan document: %v\n%s", err, stdout)
	}
	if len(plan.Steps) == 0 || len(plan.Steps) > 2 {
		t.Fatalf("plan steps = %d, want 1..2", len(plan.Steps))
	}
	if !strings.Contains(stderr, "groq api key not configured") {
		t.Fatalf("expected startup warnings on stderr, got %q", stderr)
	}
}
