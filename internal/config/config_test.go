package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Extraction.Strategy != "hybrid" {
		t.Errorf("Strategy = %q, want hybrid", cfg.Extraction.Strategy)
	}
	if cfg.Extraction.AIProvider != "openai" {
		t.Errorf("AIProvider = %q, want openai", cfg.Extraction.AIProvider)
	}
	p, ok := cfg.GetAIProvider("openai")
	if !ok {
		t.Fatal("default openai provider missing")
	}
	if p.APIKey != "${OPENAI_API_KEY}" {
		t.Errorf("APIKey = %q, want env reference", p.APIKey)
	}
	if cfg.Batch.MaxWorkers != 4 || cfg.Batch.RetryAttempts != 3 {
		t.Errorf("batch defaults = %d/%d, want 4/3", cfg.Batch.MaxWorkers, cfg.Batch.RetryAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extraction.Strategy = "regex_magic"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted an unknown strategy")
	}

	cfg = DefaultConfig()
	cfg.Extraction.AIProvider = "missing"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted an unregistered ai_provider")
	}

	cfg = DefaultConfig()
	cfg.Batch.MaxWorkers = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted negative max_workers")
	}
}

func TestEnabledAIProviders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AIProviders["disabled"] = AIProviderCfg{Type: "openai", Enabled: false}

	enabled := cfg.EnabledAIProviders()
	if _, ok := enabled["openai"]; !ok {
		t.Error("enabled provider filtered out")
	}
	if _, ok := enabled["disabled"]; ok {
		t.Error("disabled provider not filtered")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("GLOSAFLOW_TEST_KEY", "sk-12345")

	tests := []struct {
		in   string
		want string
	}{
		{"${GLOSAFLOW_TEST_KEY}", "sk-12345"},
		{"prefix-${GLOSAFLOW_TEST_KEY}", "prefix-sk-12345"},
		{"no-refs-here", "no-refs-here"},
		{"", ""},
		{"${GLOSAFLOW_UNSET_VAR}", ""},
	}
	for _, tt := range tests {
		if got := ResolveEnvVars(tt.in); got != tt.want {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# Glosaflow configuration") {
		t.Error("written file missing the comment header")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if cfg.Extraction.Strategy != "hybrid" {
		t.Errorf("round-tripped strategy = %q, want hybrid", cfg.Extraction.Strategy)
	}
}
