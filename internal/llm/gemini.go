package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bytsbot/internal/logging"

	"google.golang.org/genai"
)

// GeminiClient uses the Gemini API through the genai SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewGeminiClient creates a Gemini client. BaseURL, when set, overrides the
// SDK endpoint.
func NewGeminiClient(ctx context.Context, opts clientOptions) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{
		client:      client,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.maxTokens(),
		timeout:     opts.Timeout,
	}, nil
}

// CompleteWithSystem sends one system + user exchange. It does not retry.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := withDeadline(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	logging.LLMDebug("[gemini] CompleteWithSystem: model=%s user_len=%d", c.model, len(userPrompt))

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.temperature)),
		MaxOutputTokens: int32(c.maxTokens),
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: empty completion")
	}

	logging.LLM("[gemini] completed in %v response_len=%d", time.Since(startTime), len(text))
	return text, nil
}
