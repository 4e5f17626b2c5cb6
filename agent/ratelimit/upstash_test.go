package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeUpstash tracks sorted-set cardinality per key, enough to drive the
// limiter through its REST calls.
type fakeUpstash struct {
	mu       sync.Mutex
	members  map[string]map[string]struct{}
	paths    []string
	commands [][]any
	auth     string
}

func (f *fakeUpstash) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var cmds [][]any
	if err := json.NewDecoder(r.Body).Decode(&cmds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, r.URL.Path)
	f.auth = r.Header.Get("Authorization")

	var out []string
	for _, cmd := range cmds {
		f.commands = append(f.commands, cmd)
		key, _ := cmd[1].(string)
		set := f.members[key]
		if set == nil {
			set = map[string]struct{}{}
			f.members[key] = set
		}
		switch cmd[0] {
		case "ZADD":
			set[fmt.Sprint(cmd[3])] = struct{}{}
			out = append(out, `{"result":1}`)
		case "ZREM":
			delete(set, fmt.Sprint(cmd[2]))
			out = append(out, `{"result":1}`)
		case "ZCARD":
			out = append(out, fmt.Sprintf(`{"result":%d}`, len(set)))
		default:
			out = append(out, `{"result":0}`)
		}
	}
	fmt.Fprintf(w, "[%s]", strings.Join(out, ","))
}

func TestUpstashAdmit(t *testing.T) {
	t.Parallel()

	fake := &fakeUpstash{members: map[string]map[string]struct{}{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	limiter, err := NewUpstash(UpstashConfig{URL: srv.URL, Token: "tok"}, 2, time.Minute,
		WithHTTPClient(srv.Client()), WithKeyPrefix("test:"))
	if err != nil {
		t.Fatalf("NewUpstash() error = %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if ok, err := limiter.Admit(ctx, "ip"); err != nil || !ok {
			t.Fatalf("request %d: Admit() = %v, %v", i+1, ok, err)
		}
	}
	ok, err := limiter.Admit(ctx, "ip")
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	if ok {
		t.Fatal("third request must be rejected")
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.auth != "Bearer tok" {
		t.Fatalf("Authorization = %q", fake.auth)
	}
	if fake.paths[0] != "/multi-exec" || fake.paths[len(fake.paths)-1] != "/pipeline" {
		t.Fatalf("unexpected endpoints %v", fake.paths)
	}
	if len(fake.members["test:ip"]) != 2 {
		t.Fatalf("rejected request must be rolled back, set size = %d", len(fake.members["test:ip"]))
	}
	if fake.commands[0][0] != "ZREMRANGEBYSCORE" || fake.commands[0][1] != "test:ip" {
		t.Fatalf("first command = %v", fake.commands[0])
	}
}

func TestUpstashErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"error":"WRONGTYPE"}]`)
	}))
	t.Cleanup(srv.Close)

	limiter, err := NewUpstash(UpstashConfig{URL: srv.URL, Token: "tok"}, 2, time.Minute, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewUpstash() error = %v", err)
	}
	if _, err := limiter.Admit(context.Background(), "ip"); err == nil || !strings.Contains(err.Error(), "WRONGTYPE") {
		t.Fatalf("Admit() error = %v, want WRONGTYPE", err)
	}

	if _, err := NewUpstash(UpstashConfig{Token: "tok"}, 1, time.Minute); err == nil {
		t.Fatal("expected error without url")
	}
	if _, err := NewUpstash(UpstashConfig{URL: srv.URL}, 1, time.Minute); err == nil {
		t.Fatal("expected error without token")
	}
}
