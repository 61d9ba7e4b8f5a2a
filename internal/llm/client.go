// Package llm talks to the model providers behind solution generation,
// debugging and escalation.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bytsbot/internal/config"
)

// Client is the completion capability used by Agent.
type Client interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Provider represents an LLM provider.
type Provider string

const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderGemini     Provider = "gemini"
)

// Default models per provider when the config leaves model empty.
var defaultModels = map[Provider]string{
	ProviderOpenRouter: "minimax/minimax-m2.5",
	ProviderOpenAI:     "gpt-4o",
	ProviderAnthropic:  "claude-3-5-sonnet-20241022",
	ProviderGemini:     "gemini-2.5-flash",
}

var defaultBaseURLs = map[Provider]string{
	ProviderOpenRouter: "https://openrouter.ai/api/v1",
	ProviderOpenAI:     "https://api.openai.com/v1",
	ProviderAnthropic:  "https://api.anthropic.com/v1",
}

// StatusError is a non-2xx provider response.
type StatusError struct {
	Provider Provider
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API request failed with status %d: %s", e.Provider, e.Code, e.Body)
}

// Temporary reports whether the request may succeed if repeated.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code == http.StatusRequestTimeout || e.Code >= 500
}

// NewClientFromConfig builds the configured provider client wrapped in the
// retry decorator.
func NewClientFromConfig(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: no API key for provider %q", cfg.Provider)
	}
	p := Provider(cfg.Provider)
	model := cfg.Model
	if model == "" {
		model = defaultModels[p]
	}
	baseURL := cfg.BaseURL
	if baseURL == "" || (p != ProviderOpenRouter && baseURL == defaultBaseURLs[ProviderOpenRouter]) {
		baseURL = defaultBaseURLs[p]
	}
	opts := clientOptions{
		APIKey:      cfg.APIKey,
		BaseURL:     baseURL,
		Model:       model,
		Timeout:     cfg.GetTimeout(),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	var c Client
	switch p {
	case ProviderOpenRouter, ProviderOpenAI:
		c = NewOpenAIClient(p, opts)
	case ProviderAnthropic:
		c = NewAnthropicClient(opts)
	case ProviderGemini:
		g, err := NewGeminiClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		c = g
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", cfg.Provider)
	}

	return WithRetry(c, RetryPolicy{
		MaxAttempts: cfg.GetMaxRetries(),
		BaseDelay:   cfg.GetRetryBaseDelay(),
	}), nil
}

// clientOptions is shared by the provider constructors.
type clientOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

func (o clientOptions) maxTokens() int {
	if o.MaxTokens <= 0 {
		return 4096
	}
	return o.MaxTokens
}

// withDeadline applies the client timeout when ctx has no deadline.
func withDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
