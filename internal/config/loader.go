package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied to fields the config file leaves unset.
const (
	DefaultMaxIterations = 10
	DefaultPylintTimeout = 30 * time.Second
	DefaultPytestTimeout = 60 * time.Second
)

// Load reads and parses a refinery configuration from the given YAML file
// path, then applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches for a config in standard locations and loads the
// first one found. Search order: ./refinery.yaml, ~/.refinery/config.yaml.
func LoadDefault() (*Config, error) {
	candidates := []string{"refinery.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".refinery", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return nil, fmt.Errorf("no refinery config found (searched: %v)", candidates)
}

func applyDefaults(cfg *Config) {
	r := &cfg.Refinery

	if r.MaxIterations <= 0 {
		r.MaxIterations = DefaultMaxIterations
	}
	if len(r.Tools.Pylint.Command) == 0 {
		r.Tools.Pylint.Command = []string{"python", "-m", "pylint", "--output-format=json", "--score=yes"}
	}
	if r.Tools.Pylint.Timeout == "" {
		r.Tools.Pylint.Timeout = DefaultPylintTimeout.String()
	}
	if len(r.Tools.Pytest.Command) == 0 {
		r.Tools.Pytest.Command = []string{"python", "-m", "pytest", "-v", "--tb=short", "--no-header"}
	}
	if r.Tools.Pytest.Timeout == "" {
		r.Tools.Pytest.Timeout = DefaultPytestTimeout.String()
	}
	if r.Provider.Model == "" {
		r.Provider.Model = "gpt-4o-mini"
	}
	if r.Provider.APIKeyName == "" {
		r.Provider.APIKeyName = "REFINERY_API_KEY"
	}
}

// Default returns a config with every default applied, for running without a
// config file.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// ParseTimeout converts a tool timeout string, falling back on parse failure.
func ParseTimeout(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
