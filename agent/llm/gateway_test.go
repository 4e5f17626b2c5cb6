package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	hfx "github.com/tanpawarit/agentic-automator/pkg/huggingface"
)

var fastConfig = Config{
	RetryAttempts: 3,
	RetryInitial:  time.Millisecond,
	RetryMax:      2 * time.Millisecond,
}

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatus() int { return int(e) }

type fakeModelBackend struct {
	mu    sync.Mutex
	fn    func(model string) (string, error)
	calls []string
}

func (f *fakeModelBackend) Name() string { return "fake-primary" }

func (f *fakeModelBackend) Complete(ctx context.Context, model string, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, model)
	f.mu.Unlock()
	return f.fn(model)
}

func (f *fakeModelBackend) callsFor(model string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == model {
			n++
		}
	}
	return n
}

type fakeBackend struct {
	mu    sync.Mutex
	fn    func() (string, error)
	calls int
}

func (f *fakeBackend) Name() string { return "fake-secondary" }

func (f *fakeBackend) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn()
}

func newTestGateway(t *testing.T, opts ...Option) *Gateway {
	t.Helper()
	g, err := New(fastConfig, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func TestCompleteRotatesModelOnRateLimit(t *testing.T) {
	t.Parallel()

	primary := &fakeModelBackend{fn: func(model string) (string, error) {
		if model == "model-a" {
			return "", statusErr(http.StatusTooManyRequests)
		}
		return "answer from " + model, nil
	}}
	secondary := &fakeBackend{fn: func() (string, error) { return "secondary", nil }}

	g := newTestGateway(t, WithPrimary(primary, []string{"model-a", "model-b"}), WithSecondary(secondary))
	out := g.Complete(context.Background(), "hello")

	if out != "answer from model-b" {
		t.Fatalf("Complete() = %q, want model-b output", out)
	}
	if got := primary.callsFor("model-a"); got != 1 {
		t.Fatalf("model-a attempts = %d, want 1 (rate limit must not be retried)", got)
	}
	if secondary.calls != 0 {
		t.Fatalf("secondary calls = %d, want 0", secondary.calls)
	}
}

func TestCompleteRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	primary := &fakeModelBackend{fn: func(model string) (string, error) {
		attempts++
		if attempts < 3 {
			return "", statusErr(http.StatusBadGateway)
		}
		return "recovered", nil
	}}

	g := newTestGateway(t, WithPrimary(primary, []string{"model-a"}))
	out := g.Complete(context.Background(), "hello")

	if out != "recovered" {
		t.Fatalf("Complete() = %q, want recovered", out)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestCompleteAttemptBudgetPerModel(t *testing.T) {
	t.Parallel()

	primary := &fakeModelBackend{fn: func(model string) (string, error) {
		return "", errors.New("connection refused")
	}}
	secondary := &fakeBackend{fn: func() (string, error) { return "from secondary", nil }}

	g := newTestGateway(t, WithPrimary(primary, []string{"a", "b"}), WithSecondary(secondary))
	out := g.Complete(context.Background(), "hello")

	if out != "from secondary" {
		t.Fatalf("Complete() = %q, want secondary output", out)
	}
	if primary.callsFor("a") != 3 || primary.callsFor("b") != 3 {
		t.Fatalf("attempts a=%d b=%d, want 3 each", primary.callsFor("a"), primary.callsFor("b"))
	}
	if secondary.calls != 1 {
		t.Fatalf("secondary calls = %d, want 1", secondary.calls)
	}
}

func TestCompletePreferredModelFirst(t *testing.T) {
	t.Parallel()

	primary := &fakeModelBackend{fn: func(model string) (string, error) {
		return model, nil
	}}

	g := newTestGateway(t, WithPrimary(primary, []string{"a", "b"}))
	out := g.Complete(context.Background(), "hello", contractx.WithPreferredModel("b"))

	if out != "b" {
		t.Fatalf("Complete() = %q, want preferred model b", out)
	}
}

func TestCompleteFallbackWhenEverythingFails(t *testing.T) {
	t.Parallel()

	primary := &fakeModelBackend{fn: func(model string) (string, error) {
		return "", errors.New("dial tcp: no route to host")
	}}
	secondary := &fakeBackend{fn: func() (string, error) {
		return "", statusErr(http.StatusServiceUnavailable)
	}}

	prompt := strings.Repeat("p", 2500)
	g := newTestGateway(t, WithPrimary(primary, []string{"a"}), WithSecondary(secondary))
	out := g.Complete(context.Background(), prompt)

	if !strings.HasPrefix(out, "[fallback] LLM providers unavailable.") {
		t.Fatalf("unexpected fallback prefix: %q", out[:60])
	}
	if !strings.Contains(out, "Prompt length=2500") {
		t.Fatalf("fallback must report the prompt length: %q", out[:80])
	}
	if !strings.HasSuffix(out, "\nPrompt:\n"+strings.Repeat("p", 2000)) {
		t.Fatal("fallback must carry exactly the first 2000 characters of the prompt")
	}
	if secondary.calls != 3 {
		t.Fatalf("secondary attempts = %d, want 3", secondary.calls)
	}
}

func TestCompleteWithoutBackends(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	out := g.Complete(context.Background(), "abc")
	if out != Fallback("abc") {
		t.Fatalf("Complete() = %q", out)
	}
}

func TestCompleteEmptyCompletionAdvances(t *testing.T) {
	t.Parallel()

	primary := &fakeModelBackend{fn: func(model string) (string, error) {
		if model == "a" {
			return "", nil
		}
		return "non-empty", nil
	}}

	g := newTestGateway(t, WithPrimary(primary, []string{"a", "b"}))
	if out := g.Complete(context.Background(), "x"); out != "non-empty" {
		t.Fatalf("Complete() = %q", out)
	}
	if primary.callsFor("a") != 1 {
		t.Fatalf("empty completion must not be retried, got %d attempts", primary.callsFor("a"))
	}
}

func TestCompleteCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &fakeModelBackend{fn: func(model string) (string, error) {
		return "", context.Canceled
	}}
	secondary := &fakeBackend{fn: func() (string, error) { return "secondary", nil }}

	g := newTestGateway(t, WithPrimary(primary, []string{"a", "b"}), WithSecondary(secondary))
	out := g.Complete(ctx, "x")

	if !strings.HasPrefix(out, "[fallback]") {
		t.Fatalf("Complete() = %q, want fallback", out)
	}
	if secondary.calls != 0 {
		t.Fatalf("secondary must not run after cancellation, got %d calls", secondary.calls)
	}
}

func TestCandidateModels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		preferred  string
		configured []string
		want       []string
	}{
		{name: "no preferred", configured: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "preferred new", preferred: "x", configured: []string{"a", "b"}, want: []string{"x", "a", "b"}},
		{name: "preferred present", preferred: "b", configured: []string{"a", "b"}, want: []string{"b", "a"}},
		{name: "dedupe and blanks", configured: []string{"a", " ", "a", "c"}, want: []string{"a", "c"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CandidateModels(tt.preferred, tt.configured)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Fatalf("CandidateModels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig.Validate(); err != nil {
		t.Fatalf("DefaultConfig.Validate() error = %v", err)
	}
	bad := Config{RetryAttempts: 0, RetryInitial: time.Second, RetryMax: time.Second}
	if err := bad.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}
}

func TestIsFallback(t *testing.T) {
	t.Parallel()

	if !IsFallback(Fallback("x")) {
		t.Fatal("IsFallback(Fallback(x)) = false")
	}
	if IsFallback("a real answer") {
		t.Fatal("IsFallback(real answer) = true")
	}
}

func TestCompleteMalformedSecondaryNotRetried(t *testing.T) {
	t.Parallel()

	secondary := &fakeBackend{fn: func() (string, error) {
		return "", fmt.Errorf("decode: %w", hfx.ErrMalformedResponse)
	}}

	g := newTestGateway(t, WithSecondary(secondary))
	out := g.Complete(context.Background(), "abc")

	if out != Fallback("abc") {
		t.Fatalf("Complete() = %q, want fallback", out)
	}
	if secondary.calls != 1 {
		t.Fatalf("secondary attempts = %d, want 1", secondary.calls)
	}
}
