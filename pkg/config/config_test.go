package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Name    string        `envconfig:"NAME" default:"fallback"`
	Models  []string      `envconfig:"MODELS" default:"a,b"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// Not parallel: these tests mutate the process environment.

func TestNewReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGTEST_NAME=from-file\nCFGTEST_MODELS=x,y,z\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		SetEnvFile("")
		os.Unsetenv("CFGTEST_NAME")
		os.Unsetenv("CFGTEST_MODELS")
	})

	SetEnvFile(path)
	cfg, err := New[sampleConfig]("CFGTEST")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Name != "from-file" {
		t.Fatalf("Name = %q, want from-file", cfg.Name)
	}
	if len(cfg.Models) != 3 || cfg.Models[2] != "z" {
		t.Fatalf("Models = %#v", cfg.Models)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestNewEnvironmentWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGTEST2_NAME=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CFGTEST2_NAME", "from-env")
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(path)
	cfg, err := New[sampleConfig]("CFGTEST2")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Name != "from-env" {
		t.Fatalf("Name = %q, want from-env", cfg.Name)
	}
}

func TestNewMissingExplicitFile(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if _, err := New[sampleConfig]("CFGTEST3"); err == nil {
		t.Fatal("expected error for missing explicit env file")
	}
}
