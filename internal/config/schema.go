package config

// Config holds glosaflow configuration.
// Stored at: config.yaml (or the path given with --config).
type Config struct {
	AIProviders map[string]AIProviderCfg `mapstructure:"ai_providers" yaml:"ai_providers"`
	Extraction  ExtractionCfg            `mapstructure:"extraction" yaml:"extraction"`
	Batch       BatchCfg                 `mapstructure:"batch" yaml:"batch"`
}

// AIProviderCfg configures an LLM provider used by the hybrid strategy.
type AIProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"`             // "openai"
	Model     string  `mapstructure:"model" yaml:"model"`           // Model name
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`       // API key (supports ${ENV_VAR} syntax)
	BaseURL   string  `mapstructure:"base_url" yaml:"base_url"`     // Optional API base override
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per minute
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// ExtractionCfg selects the extraction strategy and its AI provider.
type ExtractionCfg struct {
	Strategy   string `mapstructure:"strategy" yaml:"strategy"`       // pattern_only, ai_only, hybrid
	AIProvider string `mapstructure:"ai_provider" yaml:"ai_provider"` // Key into ai_providers
}

// BatchCfg bounds the batch orchestrator.
type BatchCfg struct {
	MaxWorkers    int `mapstructure:"max_workers" yaml:"max_workers"`       // Max concurrent section jobs
	RetryAttempts int `mapstructure:"retry_attempts" yaml:"retry_attempts"` // Attempts per section (transient errors only)
	RetryDelaySec int `mapstructure:"retry_delay_sec" yaml:"retry_delay_sec"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		AIProviders: map[string]AIProviderCfg{
			"openai": {
				Type:      "openai",
				Model:     "gpt-4o-mini",
				APIKey:    "${OPENAI_API_KEY}",
				RateLimit: 60,
				Enabled:   true,
			},
		},
		Extraction: ExtractionCfg{
			Strategy:   "hybrid",
			AIProvider: "openai",
		},
		Batch: BatchCfg{
			MaxWorkers:    4,
			RetryAttempts: 3,
			RetryDelaySec: 2,
		},
	}
}

// GetAIProvider returns an AI provider config by name.
func (c *Config) GetAIProvider(name string) (AIProviderCfg, bool) {
	cfg, ok := c.AIProviders[name]
	return cfg, ok
}

// EnabledAIProviders returns all enabled AI providers.
func (c *Config) EnabledAIProviders() map[string]AIProviderCfg {
	result := make(map[string]AIProviderCfg)
	for name, cfg := range c.AIProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
