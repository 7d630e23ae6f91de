package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/aiact-classifier/internal/domain/ai"
)

func newTestClient(t *testing.T, model string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL
	return NewClientWithConfig(cfg, model, nil)
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"choices": []any{map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
		"usage":   map[string]any{"total_tokens": 42},
	}
}

func TestAssess_RequestsJSON(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(completion(`{"is_high_risk": true, "reason": "Annex III"}`))
	})

	raw, err := c.Assess(context.Background(), "is it high risk?")
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_high_risk": true, "reason": "Annex III"}`, string(raw))

	assert.Equal(t, DefaultModel, body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
	assert.EqualValues(t, maxTokens, body["max_completion_tokens"])
	assert.NotContains(t, body, "max_tokens")
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "is it high risk?", msgs[1].(map[string]any)["content"])
}

func TestGenerate_ClassicModelUsesMaxTokens(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, "gpt-4o-mini", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(completion("A summary."))
	})

	text, err := c.Generate(context.Background(), "summarize")
	require.NoError(t, err)
	assert.Equal(t, "A summary.", text)
	assert.EqualValues(t, maxTokens, body["max_tokens"])
	assert.NotContains(t, body, "response_format")
}

func TestComplete_EmptyContent(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completion("  "))
	})
	_, err := c.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
}

func TestComplete_QuotaExceeded(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	})
	_, err := c.Assess(context.Background(), "x")
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestComplete_ServerError(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})
	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestReasoningModel(t *testing.T) {
	for _, m := range []string{"o1-mini", "o3-2025-04-16", "o4-mini", "gpt-5-nano"} {
		assert.True(t, reasoningModel(m), m)
	}
	for _, m := range []string{"gpt-4o", "gpt-4.1-mini"} {
		assert.False(t, reasoningModel(m), m)
	}
}
