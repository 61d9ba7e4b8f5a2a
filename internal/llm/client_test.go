package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bytsbot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(url string) clientOptions {
	return clientOptions{APIKey: "k", BaseURL: url, Model: "m", Timeout: 5 * time.Second, Temperature: 0.2}
}

func TestOpenAIClient_CompleteWithSystem(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.Equal(t, "bytsbot", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  class Solution {}  "},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewOpenAIClient(ProviderOpenRouter, testOptions(srv.URL))
	text, err := c.CompleteWithSystem(context.Background(), "sys", "user")
	require.NoError(t, err)

	assert.Equal(t, "class Solution {}", text)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Content)
	assert.Equal(t, 4096, got.MaxTokens)
}

func TestOpenAIClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewOpenAIClient(ProviderOpenAI, testOptions(srv.URL))
	_, err := c.CompleteWithSystem(context.Background(), "sys", "user")

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.True(t, se.Temporary())
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewOpenAIClient(ProviderOpenAI, testOptions(srv.URL)).CompleteWithSystem(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "no completion")
}

func TestAnthropicClient_CompleteWithSystem(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"class "},{"type":"text","text":"Solution {}"}],"stop_reason":"end_turn"}`))
	}))
	t.Cleanup(srv.Close)

	text, err := NewAnthropicClient(testOptions(srv.URL)).CompleteWithSystem(context.Background(), "sys", "user")
	require.NoError(t, err)

	assert.Equal(t, "class Solution {}", text)
	assert.Equal(t, "sys", got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestAnthropicClient_BadRequestIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad"}}`, http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	_, err := NewAnthropicClient(testOptions(srv.URL)).CompleteWithSystem(context.Background(), "s", "u")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.False(t, se.Temporary())
}

func TestNewClientFromConfig(t *testing.T) {
	_, err := NewClientFromConfig(context.Background(), config.LLMConfig{Provider: "openai"})
	assert.ErrorContains(t, err, "no API key")

	_, err = NewClientFromConfig(context.Background(), config.LLMConfig{Provider: "telepathy", APIKey: "k"})
	assert.ErrorContains(t, err, "unsupported provider")

	c, err := NewClientFromConfig(context.Background(), config.LLMConfig{
		Provider: "anthropic",
		APIKey:   "k",
		BaseURL:  "https://openrouter.ai/api/v1",
	})
	require.NoError(t, err)
	rc, ok := c.(*retryClient)
	require.True(t, ok)
	inner, ok := rc.inner.(*AnthropicClient)
	require.True(t, ok)
	assert.Equal(t, "https://api.anthropic.com/v1", inner.baseURL)
	assert.Equal(t, defaultModels[ProviderAnthropic], inner.model)
	assert.Equal(t, 3, rc.policy.MaxAttempts)
}
