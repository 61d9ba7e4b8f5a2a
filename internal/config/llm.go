package config

import (
	"fmt"
	"time"
)

// LLMConfig configures the model provider behind generate/debug/escalate.
type LLMConfig struct {
	Provider       string  `yaml:"provider"` // openrouter, openai, anthropic, gemini
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	BaseURL        string  `yaml:"base_url"`
	Timeout        string  `yaml:"timeout"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	MaxRetries     int     `yaml:"max_retries"`      // attempts per call, including the first
	RetryBaseDelay string  `yaml:"retry_base_delay"` // doubles each attempt
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"openrouter", "openai", "anthropic", "gemini"}

// GetTimeout returns the per-request timeout.
func (c LLMConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 120*time.Second)
}

// GetRetryBaseDelay returns the first backoff interval.
func (c LLMConfig) GetRetryBaseDelay() time.Duration {
	return parseDuration(c.RetryBaseDelay, 2*time.Second)
}

// GetMaxRetries returns the attempt budget, defaulting to 3.
func (c LLMConfig) GetMaxRetries() int {
	if c.MaxRetries <= 0 {
		return 3
	}
	return c.MaxRetries
}

// Validate checks provider and temperature bounds.
func (c LLMConfig) Validate() error {
	valid := false
	for _, p := range ValidProviders {
		if c.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.Provider, ValidProviders)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.Temperature)
	}
	return nil
}
