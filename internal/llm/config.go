package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// defaultModels is the model used when Config.Model is empty. Tips are
// short, so every default is the provider's cheapest fast tier.
var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "google/gemini-2.0-flash-exp",
}

// modelAliases expands the short names above. Anything else is sent as is.
var modelAliases = map[string]string{
	"claude-haiku": "claude-haiku-4-5-20251001",
	"gemini-flash": "gemini-2.5-flash",
}

// Config selects one provider. An empty Provider disables generated
// content and callers fall back to static sources.
type Config struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	// BaseURL overrides the API endpoint for OpenAI-compatible services.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration `mapstructure:"timeout"`

	// RatePerMinute caps outgoing requests. Zero means unlimited.
	RatePerMinute int `mapstructure:"rate_per_minute"`

	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig returns a disabled Config with retry and timeout defaults.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout:       30 * time.Second,
		RatePerMinute: 20,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// ModelOrDefault returns the configured model or the provider default.
func (c Config) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

// ModelID returns the provider model ID for ModelOrDefault.
func (c Config) ModelID() string {
	m := c.ModelOrDefault()
	if id, ok := modelAliases[m]; ok {
		return id
	}
	return m
}

// DiscoverConfig fills an unset provider by probing the standard API key
// env vars in priority order (Gemini, OpenAI, Anthropic, OpenRouter). It
// returns false when c has no provider and none of the keys is set.
func DiscoverConfig(c Config) (Config, bool) {
	if c.Enabled() {
		return c, true
	}

	probes := []struct {
		env      string
		provider string
	}{
		{"GEMINI_API_KEY", ProviderGemini},
		{"OPENAI_API_KEY", ProviderOpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic},
		{"OPENROUTER_API_KEY", ProviderOpenRouter},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			c.Provider = p.provider
			c.APIKey = k
			c.Model = ""
			return c, true
		}
	}
	return c, false
}

// Validate checks that the selected provider is known and has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("FJALA_LLM_API_KEY is required for the %s provider", c.Provider)
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.RatePerMinute < 0 {
		return fmt.Errorf("llm.rate_per_minute must not be negative")
	}
	return nil
}
