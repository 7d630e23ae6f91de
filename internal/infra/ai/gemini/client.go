// Package gemini adapts Google's Gemini API to the classifier's AI port.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/bryanwahyu/aiact-classifier/internal/domain/ai"
	"github.com/bryanwahyu/aiact-classifier/internal/infra/ai/prompt"
)

const DefaultModel = "gemini-2.5-flash"

type Client struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

// NewClient creates a Gemini API client. baseURL may be empty.
func NewClient(ctx context.Context, apiKey, model, baseURL string, log *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ai.ErrNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: client, model: model, log: log}, nil
}

func (c *Client) Provider() string { return "gemini" }

// Assess requests a JSON object answer.
func (c *Client) Assess(ctx context.Context, userPrompt string) (json.RawMessage, error) {
	text, err := c.generate(ctx, "assess", userPrompt, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.AssessorSystem(), genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

// Generate requests free text.
func (c *Client) Generate(ctx context.Context, userPrompt string) (string, error) {
	return c.generate(ctx, "generate", userPrompt, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.WriterSystem(), genai.RoleUser),
	})
}

func (c *Client) generate(ctx context.Context, op, userPrompt string, cfg *genai.GenerateContentConfig) (string, error) {
	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), cfg)
	if err != nil {
		if quotaError(err) {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("model", c.model),
		zap.Int("prompt_len", len(userPrompt)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if resp.UsageMetadata != nil {
		fields = append(fields, zap.Int32("total_tokens", resp.UsageMetadata.TotalTokenCount))
	}
	c.log.Debug("gemini response", fields...)

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ai.ErrEmptyResponse
	}
	return text, nil
}

func quotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	return false
}
