package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refinery.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
refinery:
  sandbox_root: ./sandbox
  max_iterations: 5
  exclude_dirs: [".git", "__pycache__"]
  tools:
    pylint:
      command: ["pylint", "--output-format=json"]
      timeout: 45s
  provider:
    base_url: https://api.groq.com/openai/v1
    model: llama-3.3-70b-versatile
    api_key_name: GROQ_API_KEY
    temperature: 0.3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	r := cfg.Refinery
	if r.SandboxRoot != "./sandbox" {
		t.Errorf("sandbox_root: %q", r.SandboxRoot)
	}
	if r.MaxIterations != 5 {
		t.Errorf("max_iterations: %d", r.MaxIterations)
	}
	if len(r.Tools.Pylint.Command) != 2 || r.Tools.Pylint.Command[0] != "pylint" {
		t.Errorf("pylint command: %v", r.Tools.Pylint.Command)
	}
	if r.Tools.Pylint.Timeout != "45s" {
		t.Errorf("pylint timeout: %q", r.Tools.Pylint.Timeout)
	}
	if r.Provider.Model != "llama-3.3-70b-versatile" {
		t.Errorf("model: %q", r.Provider.Model)
	}
	if r.Provider.APIKeyName != "GROQ_API_KEY" {
		t.Errorf("api_key_name: %q", r.Provider.APIKeyName)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
refinery:
  sandbox_root: ./sandbox
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	r := cfg.Refinery
	if r.MaxIterations != DefaultMaxIterations {
		t.Errorf("max_iterations default: %d", r.MaxIterations)
	}
	if len(r.Tools.Pylint.Command) == 0 || len(r.Tools.Pytest.Command) == 0 {
		t.Error("tool command defaults missing")
	}
	if r.Tools.Pytest.Timeout != DefaultPytestTimeout.String() {
		t.Errorf("pytest timeout default: %q", r.Tools.Pytest.Timeout)
	}
	if r.Provider.APIKeyName == "" {
		t.Error("api key name default missing")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "refinery: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseTimeout(t *testing.T) {
	if got := ParseTimeout("45s", time.Minute); got != 45*time.Second {
		t.Errorf("got %v", got)
	}
	if got := ParseTimeout("", time.Minute); got != time.Minute {
		t.Errorf("empty: got %v", got)
	}
	if got := ParseTimeout("bogus", time.Minute); got != time.Minute {
		t.Errorf("bogus: got %v", got)
	}
	if got := ParseTimeout("-5s", time.Minute); got != time.Minute {
		t.Errorf("negative: got %v", got)
	}
}
